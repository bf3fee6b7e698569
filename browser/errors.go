package browser

import "errors"

var (
	// ErrNoBrowser is returned by operations that need a started browser.
	ErrNoBrowser = errors.New("no browser started: start the browser first")

	// ErrNoHandle is returned when an operation receives neither a page nor
	// an element handle.
	ErrNoHandle = errors.New("expected a page or an element handle")

	// ErrSelectorOnElement is returned when a selector is passed together
	// with an element handle to an operation that acts on the element itself.
	ErrSelectorOnElement = errors.New("a selector cannot be used with an element handle")

	// ErrElementRequired is returned when an element-only operation receives
	// a page.
	ErrElementRequired = errors.New("expected an element handle")
)
