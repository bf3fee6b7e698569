package browser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
	"github.com/playbot-dev/playbot/storage"
)

// Library is the dispatch façade behind the keywords. It holds at most one
// browser, started with the backend chosen at construction. A test suite is
// expected to start the browser once and isolate its tests in contexts.
//
// Library is not safe for concurrent use.
type Library struct {
	ctx       context.Context
	backend   string
	launcher  api.Launcher
	persister storage.FilePersister
	logger    *common.Logger

	browser *Browser
}

// NewLibrary returns a library that starts backend browsers through
// launcher. The backend name is validated when the browser is started.
func NewLibrary(ctx context.Context, backend string, launcher api.Launcher, logger *common.Logger) *Library {
	if logger == nil {
		logger = common.NullLogger()
	}
	return &Library{
		ctx:       ctx,
		backend:   backend,
		launcher:  launcher,
		persister: &storage.LocalFilePersister{},
		logger:    logger,
	}
}

// SetFilePersister sets the persister screenshots are written with.
func (l *Library) SetFilePersister(fp storage.FilePersister) {
	l.persister = fp
}

// Backend returns the configured browser backend name.
func (l *Library) Backend() string { return l.backend }

// Browser returns the started browser.
func (l *Library) Browser() (*Browser, error) {
	if l.browser == nil {
		return nil, ErrNoBrowser
	}
	return l.browser, nil
}

// StartBrowser starts the configured browser. Starting is expensive; contexts
// are the cheap way to isolate tests. A browser that is already running is
// replaced without being closed.
func (l *Library) StartBrowser(opts *common.LaunchOptions) error {
	if l.browser != nil {
		l.logger.Warnf("Library:StartBrowser", "a %s browser is already running, starting another one", l.browser.Name())
	}
	b, err := startBrowser(l.launcher, l.backend, opts, l.logger)
	if err != nil {
		return err
	}
	l.browser = b
	return nil
}

// CloseBrowser closes the started browser.
func (l *Library) CloseBrowser() error {
	b, err := l.Browser()
	if err != nil {
		return err
	}
	if err := b.Close(); err != nil {
		return err
	}
	l.browser = nil
	return nil
}

// BrowserVersion returns the version of the started browser.
func (l *Library) BrowserVersion() (string, error) {
	b, err := l.Browser()
	if err != nil {
		return "", err
	}
	return b.Version(), nil
}

// NewContext creates a new browser context in the started browser.
func (l *Library) NewContext(opts *common.BrowserContextOptions) (*Context, error) {
	b, err := l.Browser()
	if err != nil {
		return nil, err
	}
	return b.NewContext(opts)
}

// CloseContext closes c and its pages.
func (l *Library) CloseContext(c *Context) error {
	return c.Close()
}

// Cookies returns the cookies of c that affect urls, or all of them.
func (l *Library) Cookies(c *Context, urls ...string) ([]common.Cookie, error) {
	return c.Cookies(urls...)
}

// NewPage opens a new page in c.
func (l *Library) NewPage(c *Context) (*Page, error) {
	return c.NewPage()
}

// ClosePage closes p.
func (l *Library) ClosePage(p *Page, opts *common.PageCloseOptions) error {
	return p.Close(opts)
}

// GoTo navigates p to url.
func (l *Library) GoTo(p *Page, url string, opts *common.GotoOptions) (*common.ResponseInfo, error) {
	return p.Goto(url, opts)
}

// Frame returns the frame of p matching opts, or nil.
func (l *Library) Frame(p *Page, opts common.FrameOptions) api.Frame {
	return p.Frame(opts)
}

// Click clicks the element matching selector in a page, or the element
// itself.
func (l *Library) Click(h Handle, selector string, opts *common.ClickOptions) error {
	if h.IsZero() {
		return ErrNoHandle
	}
	if opts == nil {
		opts = common.NewClickOptions()
	}
	if p, ok := h.Page(); ok {
		return p.p.Click(selector, opts) //nolint:wrapcheck
	}
	if selector != "" {
		return fmt.Errorf("clicking %q: %w", selector, ErrSelectorOnElement)
	}
	e, _ := h.Element()
	return e.Click(opts) //nolint:wrapcheck
}

// IsVisible reports whether the element matching selector in a page, or the
// element itself, is visible.
func (l *Library) IsVisible(h Handle, selector string, opts *common.IsVisibleOptions) (bool, error) {
	if h.IsZero() {
		return false, ErrNoHandle
	}
	if opts == nil {
		opts = common.NewIsVisibleOptions()
	}
	if p, ok := h.Page(); ok {
		return p.p.IsVisible(selector, opts) //nolint:wrapcheck
	}
	if selector != "" {
		return false, fmt.Errorf("checking visibility of %q: %w", selector, ErrSelectorOnElement)
	}
	e, _ := h.Element()
	return e.IsVisible() //nolint:wrapcheck
}

// QuerySelector returns the first element matching selector in a page or
// below an element. It returns nil when nothing matches.
func (l *Library) QuerySelector(h Handle, selector string) (api.ElementHandle, error) {
	if h.IsZero() {
		return nil, ErrNoHandle
	}
	if p, ok := h.Page(); ok {
		return p.p.QuerySelector(selector) //nolint:wrapcheck
	}
	e, _ := h.Element()
	return e.QuerySelector(selector) //nolint:wrapcheck
}

// QuerySelectorAll returns every element matching selector in a page or
// below an element.
func (l *Library) QuerySelectorAll(h Handle, selector string) ([]api.ElementHandle, error) {
	if h.IsZero() {
		return nil, ErrNoHandle
	}
	if p, ok := h.Page(); ok {
		return p.p.QuerySelectorAll(selector) //nolint:wrapcheck
	}
	e, _ := h.Element()
	return e.QuerySelectorAll(selector) //nolint:wrapcheck
}

// WaitForSelector blocks until selector reaches the state in opts, in a page
// or below an element.
func (l *Library) WaitForSelector(
	h Handle, selector string, opts *common.WaitForSelectorOptions,
) (api.ElementHandle, error) {
	if h.IsZero() {
		return nil, ErrNoHandle
	}
	if opts == nil {
		opts = common.NewWaitForSelectorOptions()
	}
	if p, ok := h.Page(); ok {
		return p.p.WaitForSelector(selector, opts) //nolint:wrapcheck
	}
	e, _ := h.Element()
	return e.WaitForSelector(selector, opts) //nolint:wrapcheck
}

// WaitForElementState blocks until an element reaches state.
func (l *Library) WaitForElementState(
	h Handle, state common.ElementState, opts *common.WaitForElementStateOptions,
) error {
	e, ok := h.Element()
	if !ok {
		if h.IsZero() {
			return ErrNoHandle
		}
		return fmt.Errorf("waiting for element state %q: %w", state, ErrElementRequired)
	}
	if opts == nil {
		opts = common.NewWaitForElementStateOptions()
	}
	return e.WaitForElementState(state, opts) //nolint:wrapcheck
}

// WaitForLoadState blocks until p reaches a load state.
func (l *Library) WaitForLoadState(p *Page, opts *common.WaitForLoadStateOptions) error {
	return p.WaitForLoadState(opts)
}

// WaitForTimeout blocks for ms milliseconds.
func (l *Library) WaitForTimeout(p *Page, ms float64) {
	p.WaitForTimeout(ms)
}

// WaitForURL blocks until the URL of p matches url.
func (l *Library) WaitForURL(p *Page, url string, opts *common.WaitForURLOptions) error {
	return p.WaitForURL(url, opts)
}

// TakeScreenshot captures p and persists the image at path.
func (l *Library) TakeScreenshot(p *Page, path string, opts *common.ScreenshotOptions) error {
	buf, err := p.Screenshot(opts)
	if err != nil {
		return err
	}
	if err := l.persister.Persist(l.ctx, path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("persisting screenshot: %w", err)
	}
	l.logger.Debugf("Library:TakeScreenshot", "saved screenshot of %q to %q", p.URL(), path)
	return nil
}
