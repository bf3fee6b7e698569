package common

import (
	"errors"
	"fmt"
)

// BrowserName selects one of the engine's browser backends.
type BrowserName string

// Supported browser backends.
const (
	Chromium BrowserName = "chromium"
	Firefox  BrowserName = "firefox"
	WebKit   BrowserName = "webkit"
)

// ErrUnsupportedBrowser is returned when a browser is started with a backend
// name other than chromium, firefox or webkit.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// BrowserNames returns the supported backends in a stable order.
func BrowserNames() []BrowserName {
	return []BrowserName{Chromium, Firefox, WebKit}
}

// ParseBrowserName validates s as a backend name.
func ParseBrowserName(s string) (BrowserName, error) {
	switch n := BrowserName(s); n {
	case Chromium, Firefox, WebKit:
		return n, nil
	}
	return "", fmt.Errorf(
		"%w %q: you have to select either 'chromium', 'firefox', or 'webkit' as browser",
		ErrUnsupportedBrowser, s,
	)
}

func (n BrowserName) String() string { return string(n) }
