package browser

import (
	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

// Context is an isolated browsing session with its own cookies and storage.
// It can only be created from a Browser.
type Context struct {
	c       api.BrowserContext
	browser *Browser
}

// Browser returns the browser the context belongs to.
func (c *Context) Browser() *Browser { return c.browser }

// Cookies returns all cookies of the context when no URL is given, and the
// cookies that affect any of urls otherwise.
func (c *Context) Cookies(urls ...string) ([]common.Cookie, error) {
	return c.c.Cookies(urls...) //nolint:wrapcheck
}

// Close closes the context and all of its pages.
func (c *Context) Close() error {
	return c.c.Close() //nolint:wrapcheck
}

// NewPage opens a new page in the context.
func (c *Context) NewPage() (*Page, error) {
	p, err := c.c.NewPage()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &Page{p: p, context: c}, nil
}
