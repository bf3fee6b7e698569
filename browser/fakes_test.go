package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

var (
	errTargetClosed = errors.New("target closed")
	errTimeout      = errors.New("timeout")
)

type fakeLauncher struct {
	launched []common.BrowserName
	opts     *common.LaunchOptions
	browser  *fakeBrowser
	err      error
}

func (l *fakeLauncher) Launch(name common.BrowserName, opts *common.LaunchOptions) (api.Browser, error) {
	l.launched = append(l.launched, name)
	l.opts = opts
	if l.err != nil {
		return nil, l.err
	}
	l.browser = &fakeBrowser{name: name}
	return l.browser, nil
}

type fakeBrowser struct {
	name     common.BrowserName
	closed   bool
	contexts []*fakeContext
	ctxOpts  *common.BrowserContextOptions
}

func (b *fakeBrowser) Close() error {
	if b.closed {
		return errTargetClosed
	}
	b.closed = true
	return nil
}

func (b *fakeBrowser) IsConnected() bool { return !b.closed }

func (b *fakeBrowser) NewContext(opts *common.BrowserContextOptions) (api.BrowserContext, error) {
	if b.closed {
		return nil, errTargetClosed
	}
	b.ctxOpts = opts
	c := &fakeContext{}
	b.contexts = append(b.contexts, c)
	return c, nil
}

func (b *fakeBrowser) Version() string { return "fake/1.0" }

type fakeContext struct {
	closed  bool
	pages   []*fakePage
	cookies []common.Cookie
	urls    []string
}

func (c *fakeContext) Close() error {
	if c.closed {
		return errTargetClosed
	}
	c.closed = true
	return nil
}

func (c *fakeContext) Cookies(urls ...string) ([]common.Cookie, error) {
	c.urls = urls
	return c.cookies, nil
}

func (c *fakeContext) NewPage() (api.Page, error) {
	if c.closed {
		return nil, errTargetClosed
	}
	p := newFakePage()
	c.pages = append(c.pages, p)
	return p, nil
}

// fakePage records the calls it receives as "Method selector" strings.
type fakePage struct {
	calls    []string
	url      string
	elements map[string][]*fakeElement
	visible  bool
	waited   float64
	frame    api.Frame
	resp     api.Response
	shot     []byte
	err      error
	closed   bool

	clickOpts    *common.ClickOptions
	selectorOpts *common.WaitForSelectorOptions
	gotoOpts     *common.GotoOptions
	loadOpts     *common.WaitForLoadStateOptions
	regexp       *regexp.Regexp
}

func newFakePage() *fakePage {
	return &fakePage{url: "about:blank", elements: make(map[string][]*fakeElement)}
}

func (p *fakePage) record(m, s string) { p.calls = append(p.calls, m+" "+s) }

func (p *fakePage) Click(selector string, opts *common.ClickOptions) error {
	p.record("Click", selector)
	p.clickOpts = opts
	return p.err
}

func (p *fakePage) Close(opts *common.PageCloseOptions) error {
	p.record("Close", "")
	if p.closed {
		return errTargetClosed
	}
	p.closed = true
	return p.err
}

func (p *fakePage) Frame(opts common.FrameOptions) api.Frame {
	p.record("Frame", opts.Name.String)
	return p.frame
}

func (p *fakePage) Goto(url string, opts *common.GotoOptions) (api.Response, error) {
	p.record("Goto", url)
	p.gotoOpts = opts
	if p.closed {
		return nil, errTargetClosed
	}
	if p.err != nil {
		return nil, p.err
	}
	p.url = url
	return p.resp, nil
}

func (p *fakePage) IsVisible(selector string, opts *common.IsVisibleOptions) (bool, error) {
	p.record("IsVisible", selector)
	return p.visible, p.err
}

func (p *fakePage) QuerySelector(selector string) (api.ElementHandle, error) {
	p.record("QuerySelector", selector)
	if es := p.elements[selector]; len(es) > 0 {
		return es[0], nil
	}
	return nil, p.err
}

func (p *fakePage) QuerySelectorAll(selector string) ([]api.ElementHandle, error) {
	p.record("QuerySelectorAll", selector)
	return toHandles(p.elements[selector]), p.err
}

func (p *fakePage) Screenshot(opts *common.ScreenshotOptions) ([]byte, error) {
	p.record("Screenshot", "")
	return p.shot, p.err
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) WaitForLoadState(opts *common.WaitForLoadStateOptions) error {
	p.record("WaitForLoadState", string(opts.State))
	p.loadOpts = opts
	return p.err
}

func (p *fakePage) WaitForSelector(selector string, opts *common.WaitForSelectorOptions) (api.ElementHandle, error) {
	p.record("WaitForSelector", selector)
	p.selectorOpts = opts
	if p.err != nil {
		return nil, p.err
	}
	if es := p.elements[selector]; len(es) > 0 {
		return es[0], nil
	}
	return nil, fmt.Errorf("%w: %.0fms exceeded waiting for %q", errTimeout, opts.Timeout.Float64, selector)
}

func (p *fakePage) WaitForTimeout(ms float64) {
	p.record("WaitForTimeout", "")
	p.waited += ms
}

func (p *fakePage) WaitForURL(url string, opts *common.WaitForURLOptions) error {
	p.record("WaitForURL", url)
	return p.err
}

func (p *fakePage) WaitForURLRegexp(re *regexp.Regexp, opts *common.WaitForURLOptions) error {
	p.record("WaitForURLRegexp", re.String())
	p.regexp = re
	return p.err
}

type fakeElement struct {
	calls    []string
	visible  bool
	children map[string][]*fakeElement
	state    common.ElementState
}

func newFakeElement() *fakeElement {
	return &fakeElement{children: make(map[string][]*fakeElement)}
}

func (e *fakeElement) record(m, s string) { e.calls = append(e.calls, m+" "+s) }

func (e *fakeElement) Click(opts *common.ClickOptions) error {
	e.record("Click", "")
	return nil
}

func (e *fakeElement) IsVisible() (bool, error) {
	e.record("IsVisible", "")
	return e.visible, nil
}

func (e *fakeElement) QuerySelector(selector string) (api.ElementHandle, error) {
	e.record("QuerySelector", selector)
	if es := e.children[selector]; len(es) > 0 {
		return es[0], nil
	}
	return nil, nil
}

func (e *fakeElement) QuerySelectorAll(selector string) ([]api.ElementHandle, error) {
	e.record("QuerySelectorAll", selector)
	return toHandles(e.children[selector]), nil
}

func (e *fakeElement) WaitForElementState(state common.ElementState, opts *common.WaitForElementStateOptions) error {
	e.record("WaitForElementState", string(state))
	e.state = state
	return nil
}

func (e *fakeElement) WaitForSelector(selector string, opts *common.WaitForSelectorOptions) (api.ElementHandle, error) {
	e.record("WaitForSelector", selector)
	if es := e.children[selector]; len(es) > 0 {
		return es[0], nil
	}
	return nil, nil
}

func toHandles(es []*fakeElement) []api.ElementHandle {
	hs := make([]api.ElementHandle, 0, len(es))
	for _, e := range es {
		hs = append(hs, e)
	}
	return hs
}

type fakeFrame struct{ name, url string }

func (f *fakeFrame) Name() string { return f.name }
func (f *fakeFrame) URL() string  { return f.url }

type fakeResponse struct {
	status int
	url    string
}

func (r *fakeResponse) OK() bool           { return r.status >= 200 && r.status < 300 }
func (r *fakeResponse) Status() int        { return r.status }
func (r *fakeResponse) StatusText() string { return "OK" }
func (r *fakeResponse) URL() string        { return r.url }

type fakePersister struct {
	path string
	data []byte
}

func (f *fakePersister) Persist(_ context.Context, path string, data io.Reader) error {
	bb, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.path, f.data = path, bb
	return nil
}
