package api

import (
	"regexp"

	"github.com/playbot-dev/playbot/common"
)

// Page is a single tab within a browser context.
type Page interface {
	Click(selector string, opts *common.ClickOptions) error
	Close(opts *common.PageCloseOptions) error
	// Frame returns nil when no frame matches.
	Frame(opts common.FrameOptions) Frame
	// Goto returns a nil Response when the navigation produced none, such as
	// navigating to about:blank or to the same URL with a different hash.
	Goto(url string, opts *common.GotoOptions) (Response, error)
	IsVisible(selector string, opts *common.IsVisibleOptions) (bool, error)
	// QuerySelector returns nil when the selector matches nothing.
	QuerySelector(selector string) (ElementHandle, error)
	QuerySelectorAll(selector string) ([]ElementHandle, error)
	Screenshot(opts *common.ScreenshotOptions) ([]byte, error)
	URL() string
	WaitForLoadState(opts *common.WaitForLoadStateOptions) error
	// WaitForSelector returns nil when waiting for a detached or hidden state.
	WaitForSelector(selector string, opts *common.WaitForSelectorOptions) (ElementHandle, error)
	WaitForTimeout(ms float64)
	WaitForURL(url string, opts *common.WaitForURLOptions) error
	WaitForURLRegexp(re *regexp.Regexp, opts *common.WaitForURLOptions) error
}

// Frame is a frame of a page.
type Frame interface {
	Name() string
	URL() string
}

// Response is the response of a navigation.
type Response interface {
	OK() bool
	Status() int
	StatusText() string
	URL() string
}
