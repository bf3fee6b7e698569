// Package browser wraps the engine's browser, context and page handles and
// exposes them as a dispatch library and as a table of test keywords.
package browser

import (
	"fmt"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

// Browser owns a single running browser process.
type Browser struct {
	name   common.BrowserName
	b      api.Browser
	logger *common.Logger
}

// startBrowser validates the backend name before asking the launcher for a
// browser, so an unsupported name never spawns a process.
func startBrowser(
	launcher api.Launcher, name string, opts *common.LaunchOptions, logger *common.Logger,
) (*Browser, error) {
	bn, err := common.ParseBrowserName(name)
	if err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	if opts == nil {
		opts = common.NewLaunchOptions()
	}
	b, err := launcher.Launch(bn, opts)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	logger.Infof("Browser:start", "started %s browser", bn)

	return &Browser{name: bn, b: b, logger: logger}, nil
}

// Name returns the browser backend.
func (b *Browser) Name() common.BrowserName { return b.name }

// Version returns the browser version reported by the engine.
func (b *Browser) Version() string { return b.b.Version() }

// IsConnected reports whether the engine is still connected to the browser.
func (b *Browser) IsConnected() bool { return b.b.IsConnected() }

// Close terminates the browser process.
func (b *Browser) Close() error {
	b.logger.Debugf("Browser:close", "closing %s browser", b.name)
	return b.b.Close() //nolint:wrapcheck
}

// NewContext creates an isolated browsing session.
func (b *Browser) NewContext(opts *common.BrowserContextOptions) (*Context, error) {
	if opts == nil {
		opts = common.NewBrowserContextOptions()
	}
	c, err := b.b.NewContext(opts)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &Context{c: c, browser: b}, nil
}
