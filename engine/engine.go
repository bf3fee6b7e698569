// Package engine implements the api interfaces on top of playwright-go.
//
// Every call forwards to the matching playwright operation and returns the
// engine's error unchanged, so callers can match playwright.ErrTimeout and
// *playwright.Error themselves.
package engine

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

var (
	_ api.Launcher       = &Launcher{}
	_ api.Browser        = &browser{}
	_ api.BrowserContext = &browserContext{}
	_ api.Page           = &page{}
	_ api.ElementHandle  = &elementHandle{}
)

// Config configures the playwright driver.
type Config struct {
	// DriverDirectory is where the driver and browsers are installed. The
	// empty string uses playwright's cache directory.
	DriverDirectory string
	// SkipInstallBrowsers only installs the driver when running Install.
	SkipInstallBrowsers bool
	Verbose             bool
}

func (c Config) runOptions(browsers ...common.BrowserName) *playwright.RunOptions {
	opts := &playwright.RunOptions{
		DriverDirectory:     c.DriverDirectory,
		SkipInstallBrowsers: c.SkipInstallBrowsers,
		Verbose:             c.Verbose,
	}
	for _, b := range browsers {
		opts.Browsers = append(opts.Browsers, b.String())
	}
	return opts
}

// Install downloads the playwright driver and the given browsers. With no
// browsers, all of them are installed.
func Install(cfg Config, browsers ...common.BrowserName) error {
	if err := playwright.Install(cfg.runOptions(browsers...)); err != nil {
		return fmt.Errorf("installing playwright: %w", err)
	}
	return nil
}

// Launcher launches browsers through a playwright driver. Each launched
// browser owns its own driver process, which is stopped when the browser is
// closed.
type Launcher struct {
	cfg    Config
	logger *common.Logger
}

// NewLauncher returns a launcher for the driver described by cfg.
func NewLauncher(cfg Config, logger *common.Logger) *Launcher {
	return &Launcher{cfg: cfg, logger: logger}
}

// Launch starts the driver and launches a browser of the given backend.
func (l *Launcher) Launch(name common.BrowserName, opts *common.LaunchOptions) (api.Browser, error) {
	if _, err := common.ParseBrowserName(name.String()); err != nil {
		return nil, err
	}

	l.logger.Debugf("Engine:Launch", "starting playwright driver for %s", name)
	pw, err := playwright.Run(l.cfg.runOptions())
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}

	var bt playwright.BrowserType
	switch name {
	case common.Chromium:
		bt = pw.Chromium
	case common.Firefox:
		bt = pw.Firefox
	case common.WebKit:
		bt = pw.WebKit
	}
	b, err := bt.Launch(launchOptions(opts))
	if err != nil {
		if serr := pw.Stop(); serr != nil {
			l.logger.Warnf("Engine:Launch", "stopping playwright driver: %v", serr)
		}
		return nil, err //nolint:wrapcheck
	}
	l.logger.Debugf("Engine:Launch", "launched %s %s", name, b.Version())

	return &browser{pw: pw, b: b, logger: l.logger}, nil
}

type browser struct {
	pw     *playwright.Playwright
	b      playwright.Browser
	logger *common.Logger
}

// Close closes the browser, then stops the driver that launched it.
func (b *browser) Close() error {
	if err := b.b.Close(); err != nil {
		return err //nolint:wrapcheck
	}
	return b.pw.Stop() //nolint:wrapcheck
}

func (b *browser) IsConnected() bool { return b.b.IsConnected() }

func (b *browser) Version() string { return b.b.Version() }

func (b *browser) NewContext(opts *common.BrowserContextOptions) (api.BrowserContext, error) {
	c, err := b.b.NewContext(contextOptions(opts))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &browserContext{c: c}, nil
}

type browserContext struct {
	c playwright.BrowserContext
}

func (c *browserContext) Close() error { return c.c.Close() } //nolint:wrapcheck

func (c *browserContext) Cookies(urls ...string) ([]common.Cookie, error) {
	cs, err := c.c.Cookies(urls...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return cookies(cs), nil
}

func (c *browserContext) NewPage() (api.Page, error) {
	p, err := c.c.NewPage()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &page{p: p}, nil
}

type page struct {
	p playwright.Page
}

func (p *page) Click(selector string, opts *common.ClickOptions) error {
	return p.p.Click(selector, pageClickOptions(opts)) //nolint:wrapcheck
}

func (p *page) Close(opts *common.PageCloseOptions) error {
	return p.p.Close(pageCloseOptions(opts)) //nolint:wrapcheck
}

func (p *page) Frame(opts common.FrameOptions) api.Frame {
	f := p.p.Frame(frameOptions(opts))
	if f == nil {
		return nil
	}
	return f
}

func (p *page) Goto(url string, opts *common.GotoOptions) (api.Response, error) {
	resp, err := p.p.Goto(url, gotoOptions(opts))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if resp == nil {
		return nil, nil
	}
	return response{resp}, nil
}

func (p *page) IsVisible(selector string, opts *common.IsVisibleOptions) (bool, error) {
	return p.p.IsVisible(selector, isVisibleOptions(opts)) //nolint:wrapcheck
}

func (p *page) QuerySelector(selector string) (api.ElementHandle, error) {
	h, err := p.p.QuerySelector(selector)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElement(h), nil
}

func (p *page) QuerySelectorAll(selector string) ([]api.ElementHandle, error) {
	hs, err := p.p.QuerySelectorAll(selector)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElements(hs), nil
}

func (p *page) Screenshot(opts *common.ScreenshotOptions) ([]byte, error) {
	return p.p.Screenshot(screenshotOptions(opts)) //nolint:wrapcheck
}

func (p *page) URL() string { return p.p.URL() }

func (p *page) WaitForLoadState(opts *common.WaitForLoadStateOptions) error {
	return p.p.WaitForLoadState(waitForLoadStateOptions(opts)) //nolint:wrapcheck
}

func (p *page) WaitForSelector(selector string, opts *common.WaitForSelectorOptions) (api.ElementHandle, error) {
	h, err := p.p.WaitForSelector(selector, pageWaitForSelectorOptions(opts))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElement(h), nil
}

func (p *page) WaitForTimeout(ms float64) { p.p.WaitForTimeout(ms) }

func (p *page) WaitForURL(url string, opts *common.WaitForURLOptions) error {
	return p.p.WaitForURL(url, waitForURLOptions(opts)) //nolint:wrapcheck
}

func (p *page) WaitForURLRegexp(re *regexp.Regexp, opts *common.WaitForURLOptions) error {
	return p.p.WaitForURL(re, waitForURLOptions(opts)) //nolint:wrapcheck
}

type elementHandle struct {
	h playwright.ElementHandle
}

// wrapElement keeps "no element" a nil interface.
func wrapElement(h playwright.ElementHandle) api.ElementHandle {
	if h == nil {
		return nil
	}
	return &elementHandle{h: h}
}

func wrapElements(hs []playwright.ElementHandle) []api.ElementHandle {
	out := make([]api.ElementHandle, 0, len(hs))
	for _, h := range hs {
		out = append(out, &elementHandle{h: h})
	}
	return out
}

func (e *elementHandle) Click(opts *common.ClickOptions) error {
	return e.h.Click(elementClickOptions(opts)) //nolint:wrapcheck
}

func (e *elementHandle) IsVisible() (bool, error) { return e.h.IsVisible() } //nolint:wrapcheck

func (e *elementHandle) QuerySelector(selector string) (api.ElementHandle, error) {
	h, err := e.h.QuerySelector(selector)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElement(h), nil
}

func (e *elementHandle) QuerySelectorAll(selector string) ([]api.ElementHandle, error) {
	hs, err := e.h.QuerySelectorAll(selector)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElements(hs), nil
}

func (e *elementHandle) WaitForElementState(
	state common.ElementState, opts *common.WaitForElementStateOptions,
) error {
	o := playwright.ElementHandleWaitForElementStateOptions{}
	if opts != nil {
		o.Timeout = opts.Timeout.Ptr()
	}
	return e.h.WaitForElementState(playwright.ElementState(state), o) //nolint:wrapcheck
}

func (e *elementHandle) WaitForSelector(
	selector string, opts *common.WaitForSelectorOptions,
) (api.ElementHandle, error) {
	h, err := e.h.WaitForSelector(selector, elementWaitForSelectorOptions(opts))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return wrapElement(h), nil
}

type response struct {
	r playwright.Response
}

func (r response) OK() bool           { return r.r.Ok() }
func (r response) Status() int        { return r.r.Status() }
func (r response) StatusText() string { return r.r.StatusText() }
func (r response) URL() string        { return r.r.URL() }
