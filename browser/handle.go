package browser

import "github.com/playbot-dev/playbot/api"

// Handle is either a page or an element handle. Keywords that work on both
// take a Handle and dispatch on which one it holds.
type Handle struct {
	page    *Page
	element api.ElementHandle
}

// OnPage returns a handle for page. Selectors are resolved in the page.
func OnPage(p *Page) Handle { return Handle{page: p} }

// OnElement returns a handle for an already located element.
func OnElement(e api.ElementHandle) Handle { return Handle{element: e} }

// Page returns the page, if the handle holds one.
func (h Handle) Page() (*Page, bool) { return h.page, h.page != nil }

// Element returns the element, if the handle holds one.
func (h Handle) Element() (api.ElementHandle, bool) { return h.element, h.element != nil }

// IsZero reports whether the handle holds neither a page nor an element.
func (h Handle) IsZero() bool { return h.page == nil && h.element == nil }
