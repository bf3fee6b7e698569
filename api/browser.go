package api

import "github.com/playbot-dev/playbot/common"

// Browser is a running browser process.
type Browser interface {
	Close() error
	IsConnected() bool
	NewContext(opts *common.BrowserContextOptions) (BrowserContext, error)
	Version() string
}
