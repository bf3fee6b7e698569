package api

import "github.com/playbot-dev/playbot/common"

// Launcher starts browsers of one of the engine's backends.
type Launcher interface {
	Launch(name common.BrowserName, opts *common.LaunchOptions) (Browser, error)
}
