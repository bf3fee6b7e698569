package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/playbot-dev/playbot/common"
)

// keyword is one entry of the keyword table.
type keyword struct {
	// args is the argument specification in the test runner's notation:
	// "name", "name=default" and "**kwargs".
	args []string
	doc  string
	run  func(c *call) (any, error)
}

// mapping maps keyword names to keywords.
type mapping map[string]keyword

const libraryDoc = `Browser keywords backed by Playwright.

The library wraps a selected set of Playwright operations. Read
https://playwright.dev/docs/core-concepts to get familiar with browsers,
contexts and pages.

Start the browser once per suite with *Start Browser* in _Suite Setup_ and
close it with *Close Browser* in _Suite Teardown_. Isolate tests with
browser contexts, they are cheap to create.

Keywords that create a context, a page or an element return a handle that
can be stored in a variable and passed to other keywords.

| ${context}= | New Context    | viewport=&{viewport} |
| ${page}=    | New Page       | ${context}           |
| Go To       | ${page}        | https://example.com  |
| ${visible}= | Is Visible     | ${page}              | //body |
| Close Context | ${context}   |                      |`

const initDoc = `The browser backend is selected when the library is imported:
chromium, firefox or webkit. An unsupported backend fails when the browser
is started.`

// mapKeywords returns the keyword table for lib. Handles returned by the
// keywords are registered in hs.
func mapKeywords(lib *Library, hs *handles) mapping { //nolint:funlen,gocognit,cyclop,maintidx
	return mapping{
		"start_browser": {
			args: []string{"**kwargs"},
			doc: `Starts the browser selected at import time.

Starting a browser is expensive. Start it once in _Suite Setup_ and use
contexts for isolation. Named arguments are Playwright launch options such
as headless, slow_mo, args, channel, executable_path, proxy and timeout.

| Suite Setup | Start Browser | headless=${False} |`,
			run: func(c *call) (any, error) {
				opts := common.NewLaunchOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing browser launch options: %w", err)
				}
				return nil, lib.StartBrowser(opts)
			},
		},
		"close_browser": {
			doc: `Closes the browser. Use it in _Suite Teardown_.`,
			run: func(c *call) (any, error) {
				if err := lib.CloseBrowser(); err != nil {
					return nil, err
				}
				hs.clear()
				return nil, nil
			},
		},
		"get_browser_version": {
			doc: `Returns the version of the running browser.`,
			run: func(c *call) (any, error) {
				return lib.BrowserVersion()
			},
		},
		"new_context": {
			args: []string{"**kwargs"},
			doc: `Creates a new isolated browser context and returns its handle.

Named arguments are Playwright context options such as viewport, locale,
user_agent, base_url, extra_http_headers, geolocation and permissions.

| &{viewport}= | width=${1920} | height=${1080}       |
| ${context}=  | New Context   | viewport=&{viewport} |`,
			run: func(c *call) (any, error) {
				opts := common.NewBrowserContextOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing browser context options: %w", err)
				}
				bc, err := lib.NewContext(opts)
				if err != nil {
					return nil, err
				}
				return hs.add(kindContext, bc, ""), nil
			},
		},
		"close_context": {
			args: []string{"context"},
			doc: `Closes the given browser context and its pages.

| Close Context | ${context} |`,
			run: func(c *call) (any, error) {
				bc, err := c.context("context")
				if err != nil {
					return nil, err
				}
				if err := lib.CloseContext(bc); err != nil {
					return nil, err
				}
				if id, ok := c.ids["context"]; ok {
					hs.releaseChildren(id)
				} else {
					hs.releaseChildrenOf(bc)
				}
				return nil, nil
			},
		},
		"cookies": {
			args: []string{"context", "urls="},
			doc: `Returns the cookies of the given context.

Without urls all cookies are returned. With a URL or a list of URLs only
the cookies that affect them are returned.

| @{cookies}= | Cookies | ${context} |                     |
| @{cookies}= | Cookies | ${context} | https://example.com |
| @{cookies}= | Cookies | ${context} | ${urls}             |`,
			run: func(c *call) (any, error) {
				bc, err := c.context("context")
				if err != nil {
					return nil, err
				}
				urls, err := c.stringSlice("urls")
				if err != nil {
					return nil, err
				}
				cs, err := lib.Cookies(bc, urls...)
				if err != nil {
					return nil, err
				}
				return cookieRecords(cs), nil
			},
		},
		"new_page": {
			args: []string{"context"},
			doc: `Opens a new page in the given context and returns its handle.

| ${page1}= | New Page | ${context} |
| ${page2}= | New Page | ${context} |`,
			run: func(c *call) (any, error) {
				bc, err := c.context("context")
				if err != nil {
					return nil, err
				}
				p, err := lib.NewPage(bc)
				if err != nil {
					return nil, err
				}
				return hs.add(kindPage, p, c.ids["context"]), nil
			},
		},
		"close_page": {
			args: []string{"page", "run_before_unload=", "**kwargs"},
			doc: `Closes the given page. Unload handlers only run with
run_before_unload=${True}.`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				if c.has("run_before_unload") {
					c.opts["run_before_unload"] = c.args["run_before_unload"]
				}
				opts := common.NewPageCloseOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing page close options: %w", err)
				}
				if err := lib.ClosePage(p, opts); err != nil {
					return nil, err
				}
				if id, ok := c.ids["page"]; ok {
					hs.releaseChildren(id)
				} else {
					hs.releaseChildrenOf(p)
				}
				return nil, nil
			},
		},
		"go_to": {
			args: []string{"page", "url", "**kwargs"},
			doc: `Navigates the page to url and returns the final response after
redirects as a dictionary with url, status, statusText and ok. Returns None
when the navigation produced no response.

| ${response}= | Go To | ${page} | https://example.com | wait_until=domcontentloaded |`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				url, err := c.str("url")
				if err != nil {
					return nil, err
				}
				opts := common.NewGotoOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing navigation options: %w", err)
				}
				resp, err := lib.GoTo(p, url, opts)
				if err != nil || resp == nil {
					return nil, err
				}
				return map[string]any{
					"url":        resp.URL,
					"status":     resp.Status,
					"statusText": resp.StatusText,
					"ok":         resp.OK,
				}, nil
			},
		},
		"get_frame": {
			args: []string{"page", "name=", "url="},
			doc: `Returns the frame of the page with the given name, or whose URL
matches the url glob, as a dictionary with name and url. Returns None when
no frame matches. Exactly one of name and url must be given.`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				if c.has("name") == c.has("url") {
					return nil, fmt.Errorf("%w: %s expects exactly one of name and url", ErrArguments, c.keyword)
				}
				var opts common.FrameOptions
				if c.has("name") {
					s, err := c.str("name")
					if err != nil {
						return nil, err
					}
					opts.Name.SetValid(s)
				}
				if c.has("url") {
					s, err := c.str("url")
					if err != nil {
						return nil, err
					}
					opts.URL.SetValid(s)
				}
				f := lib.Frame(p, opts)
				if f == nil {
					return nil, nil
				}
				return map[string]any{"name": f.Name(), "url": f.URL()}, nil
			},
		},
		"click": {
			args: []string{"handle", "selector=", "**kwargs"},
			doc: `Clicks an element.

With a page the element is located by selector. With an element handle the
element itself is clicked and no selector may be given.

| Click | ${page}    | xpath=//button |
| Click | ${element} |                |`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				selector, err := c.str("selector")
				if err != nil {
					return nil, err
				}
				opts := common.NewClickOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing click options: %w", err)
				}
				return nil, lib.Click(h, selector, opts)
			},
		},
		"is_visible": {
			args: []string{"handle", "selector=", "timeout="},
			doc: `Returns whether an element is visible.

With a page the element is located by selector. With an element handle the
element itself is checked and no selector may be given.

| ${visible}= | Is Visible | ${page}    | //body |
| ${visible}= | Is Visible | ${element} |        |`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				selector, err := c.str("selector")
				if err != nil {
					return nil, err
				}
				opts := common.NewIsVisibleOptions()
				if c.has("timeout") {
					if err := opts.Parse(common.Options{"timeout": c.args["timeout"]}); err != nil {
						return nil, err
					}
				}
				return lib.IsVisible(h, selector, opts)
			},
		},
		"query_selector": {
			args: []string{"handle", "selector"},
			doc: `Returns the first element matching selector in a page, or below
an element, as an element handle. Returns None when nothing matches.

| ${element}= | Query Selector | ${page} | css=#submit |`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				selector, err := c.str("selector")
				if err != nil {
					return nil, err
				}
				e, err := lib.QuerySelector(h, selector)
				if err != nil {
					return nil, err
				}
				return c.element(e), nil
			},
		},
		"query_selector_all": {
			args: []string{"handle", "selector"},
			doc: `Returns every element matching selector in a page, or below an
element, as a list of element handles.`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				selector, err := c.str("selector")
				if err != nil {
					return nil, err
				}
				es, err := lib.QuerySelectorAll(h, selector)
				if err != nil {
					return nil, err
				}
				return c.elements(es), nil
			},
		},
		"wait_for_selector": {
			args: []string{"handle", "selector", "**kwargs"},
			doc: `Waits until selector reaches the state option (visible by
default) in a page or below an element and returns the element handle.
Returns None when waiting for the detached or hidden state.

| ${element}= | Wait For Selector | ${page} | #menu | state=attached | timeout=${5000} |`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				selector, err := c.str("selector")
				if err != nil {
					return nil, err
				}
				opts := common.NewWaitForSelectorOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing wait for selector options: %w", err)
				}
				e, err := lib.WaitForSelector(h, selector, opts)
				if err != nil {
					return nil, err
				}
				return c.element(e), nil
			},
		},
		"wait_for_element_state": {
			args: []string{"handle", "state", "**kwargs"},
			doc: `Waits until an element handle is visible, hidden, stable,
enabled, disabled or editable.

| Wait For Element State | ${element} | enabled | timeout=${2000} |`,
			run: func(c *call) (any, error) {
				h, err := c.handle("handle")
				if err != nil {
					return nil, err
				}
				state, err := common.ParseElementState(c.args["state"])
				if err != nil {
					return nil, c.argError("state", err)
				}
				opts := common.NewWaitForElementStateOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing wait for element state options: %w", err)
				}
				return nil, lib.WaitForElementState(h, state, opts)
			},
		},
		"wait_for_load_state": {
			args: []string{"page", "state=load", "timeout="},
			doc: `Waits until the page reaches the load, domcontentloaded or
networkidle state.`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				opts := common.NewWaitForLoadStateOptions()
				parse := common.Options{"state": c.args["state"]}
				if c.has("timeout") {
					parse["timeout"] = c.args["timeout"]
				}
				if err := opts.Parse(parse); err != nil {
					return nil, fmt.Errorf("parsing wait for load state options: %w", err)
				}
				return nil, lib.WaitForLoadState(p, opts)
			},
		},
		"wait_for_timeout": {
			args: []string{"page", "timeout"},
			doc: `Waits for the given number of milliseconds.

| Wait For Timeout | ${page} | ${500} |`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				ms, err := c.float("timeout")
				if err != nil {
					return nil, err
				}
				lib.WaitForTimeout(p, ms)
				return nil, nil
			},
		},
		"wait_for_url": {
			args: []string{"page", "url", "**kwargs"},
			doc: `Waits until the page URL matches the url glob, or the regular
expression with regex=${True}.

| Wait For Url | ${page} | **/login |
| Wait For Url | ${page} | ^https://.*/done$ | regex=${True} |`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				url, err := c.str("url")
				if err != nil {
					return nil, err
				}
				opts := common.NewWaitForURLOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing wait for url options: %w", err)
				}
				return nil, lib.WaitForURL(p, url, opts)
			},
		},
		"take_screenshot": {
			args: []string{"page", "path", "**kwargs"},
			doc: `Saves a screenshot of the page at path and returns the path.

| Take Screenshot | ${page} | shots/home.png | full_page=${True} |`,
			run: func(c *call) (any, error) {
				p, err := c.page("page")
				if err != nil {
					return nil, err
				}
				path, err := c.str("path")
				if err != nil {
					return nil, err
				}
				opts := common.NewScreenshotOptions()
				if err := opts.Parse(c.opts); err != nil {
					return nil, fmt.Errorf("parsing screenshot options: %w", err)
				}
				if err := lib.TakeScreenshot(p, path, opts); err != nil {
					return nil, err
				}
				return path, nil
			},
		},
	}
}

func cookieRecords(cs []common.Cookie) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, map[string]any{
			"name":     c.Name,
			"value":    c.Value,
			"domain":   c.Domain,
			"path":     c.Path,
			"expires":  c.Expires,
			"httpOnly": c.HTTPOnly,
			"secure":   c.Secure,
			"sameSite": c.SameSite,
		})
	}
	return out
}

// normalizeName folds a keyword name the way the test runner matches them:
// case, spaces and underscores are ignored.
func normalizeName(name string) string {
	r := strings.NewReplacer(" ", "", "_", "")
	return strings.ToLower(r.Replace(name))
}

// Keywords is the keyword surface of a Library: every operation as a named
// keyword with positional and named arguments. Handles returned by keywords
// are string ids that later calls resolve.
type Keywords struct {
	lib     *Library
	handles *handles
	mapping mapping
	index   map[string]string
	logger  *common.Logger
}

// NewKeywords returns the keyword table of lib.
func NewKeywords(lib *Library) *Keywords {
	hs := newHandles()
	m := mapKeywords(lib, hs)
	idx := make(map[string]string, len(m))
	for name := range m {
		idx[normalizeName(name)] = name
	}
	return &Keywords{
		lib:     lib,
		handles: hs,
		mapping: m,
		index:   idx,
		logger:  lib.logger,
	}
}

func (k *Keywords) lookup(name string) (string, keyword, error) {
	n, ok := k.index[normalizeName(name)]
	if !ok {
		return "", keyword{}, fmt.Errorf("%w %q", ErrUnknownKeyword, name)
	}
	return n, k.mapping[n], nil
}

// Names returns the keyword names in alphabetical order.
func (k *Keywords) Names() []string {
	names := make([]string, 0, len(k.mapping))
	for n := range k.mapping {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Arguments returns the argument specification of a keyword.
func (k *Keywords) Arguments(name string) ([]string, error) {
	_, kw, err := k.lookup(name)
	if err != nil {
		return nil, err
	}
	args := make([]string, len(kw.args))
	copy(args, kw.args)
	return args, nil
}

// Documentation returns the documentation of a keyword. The names __intro__
// and __init__ return the library and import documentation.
func (k *Keywords) Documentation(name string) (string, error) {
	switch name {
	case "__intro__":
		return libraryDoc, nil
	case "__init__":
		return initDoc, nil
	}
	_, kw, err := k.lookup(name)
	if err != nil {
		return "", err
	}
	return kw.doc, nil
}

// Run runs a keyword. Engine errors are returned unchanged.
func (k *Keywords) Run(name string, args []any, kwargs map[string]any) (any, error) {
	n, kw, err := k.lookup(name)
	if err != nil {
		return nil, err
	}
	c, err := bind(n, kw.args, args, kwargs, k.handles)
	if err != nil {
		return nil, err
	}
	k.logger.Debugf("Keyword:"+n, "args:%v kwargs:%v", args, kwargs)

	return kw.run(c)
}
