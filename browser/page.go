package browser

import (
	"fmt"
	"regexp"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

// Page is a tab within a browser context. It can only be created from a
// Context.
type Page struct {
	p       api.Page
	context *Context
}

// Context returns the context the page belongs to.
func (p *Page) Context() *Context { return p.context }

// URL returns the current URL of the page.
func (p *Page) URL() string { return p.p.URL() }

// Close closes the page.
func (p *Page) Close(opts *common.PageCloseOptions) error {
	if opts == nil {
		opts = common.NewPageCloseOptions()
	}
	return p.p.Close(opts) //nolint:wrapcheck
}

// Goto navigates to url and returns the main resource response after
// redirects. It returns nil when the navigation produced no response.
func (p *Page) Goto(url string, opts *common.GotoOptions) (*common.ResponseInfo, error) {
	if opts == nil {
		opts = common.NewGotoOptions()
	}
	resp, err := p.p.Goto(url, opts)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if resp == nil {
		return nil, nil
	}
	return &common.ResponseInfo{
		URL:        resp.URL(),
		Status:     resp.Status(),
		StatusText: resp.StatusText(),
		OK:         resp.OK(),
	}, nil
}

// Frame returns the frame matching opts, or nil.
func (p *Page) Frame(opts common.FrameOptions) api.Frame {
	return p.p.Frame(opts)
}

// WaitForLoadState blocks until the page reaches the load state in opts, the
// load event by default.
func (p *Page) WaitForLoadState(opts *common.WaitForLoadStateOptions) error {
	if opts == nil {
		opts = common.NewWaitForLoadStateOptions()
	}
	return p.p.WaitForLoadState(opts) //nolint:wrapcheck
}

// WaitForTimeout blocks for ms milliseconds.
func (p *Page) WaitForTimeout(ms float64) {
	p.p.WaitForTimeout(ms)
}

// WaitForURL blocks until the page URL matches url. The URL is a glob unless
// opts.Regex is set.
func (p *Page) WaitForURL(url string, opts *common.WaitForURLOptions) error {
	if opts == nil {
		opts = common.NewWaitForURLOptions()
	}
	if !opts.Regex {
		return p.p.WaitForURL(url, opts) //nolint:wrapcheck
	}
	re, err := regexp.Compile(url)
	if err != nil {
		return fmt.Errorf("compiling url pattern %q: %w", url, err)
	}
	return p.p.WaitForURLRegexp(re, opts) //nolint:wrapcheck
}

// Screenshot captures the page as an image.
func (p *Page) Screenshot(opts *common.ScreenshotOptions) ([]byte, error) {
	if opts == nil {
		opts = common.NewScreenshotOptions()
	}
	return p.p.Screenshot(opts) //nolint:wrapcheck
}
