package api

import "github.com/playbot-dev/playbot/common"

// ElementHandle is a located DOM node. It is owned by the engine.
type ElementHandle interface {
	Click(opts *common.ClickOptions) error
	IsVisible() (bool, error)
	// QuerySelector returns nil when the selector matches nothing below the
	// element.
	QuerySelector(selector string) (ElementHandle, error)
	QuerySelectorAll(selector string) ([]ElementHandle, error)
	WaitForElementState(state common.ElementState, opts *common.WaitForElementStateOptions) error
	WaitForSelector(selector string, opts *common.WaitForSelectorOptions) (ElementHandle, error)
}
