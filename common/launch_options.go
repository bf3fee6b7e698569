package common

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// Proxy is the network proxy a browser is launched with.
type Proxy struct {
	Server   string
	Bypass   null.String
	Username null.String
	Password null.String
}

// LaunchOptions are the options a browser is started with. Unset fields keep
// the engine's defaults.
type LaunchOptions struct {
	Args              []string
	Channel           null.String
	ChromiumSandbox   null.Bool
	DownloadsPath     null.String
	Env               map[string]string
	ExecutablePath    null.String
	FirefoxUserPrefs  map[string]any
	Headless          null.Bool
	IgnoreDefaultArgs []string
	Proxy             *Proxy
	SlowMo            null.Float
	Timeout           null.Float
	TracesDir         null.String
}

// NewLaunchOptions returns launch options that leave every setting to the
// engine.
func NewLaunchOptions() *LaunchOptions {
	return &LaunchOptions{}
}

// Parse parses the named arguments of the start browser keyword.
func (l *LaunchOptions) Parse(opts Options) error { //nolint:funlen,cyclop
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "args":
			l.Args, err = ToStringSlice(v)
		case "channel":
			l.Channel, err = nullString(v)
		case "chromium_sandbox":
			l.ChromiumSandbox, err = nullBool(v)
		case "downloads_path":
			l.DownloadsPath, err = nullString(v)
		case "env":
			l.Env, err = ToStringMap(v)
		case "executable_path":
			l.ExecutablePath, err = nullString(v)
		case "firefox_user_prefs":
			l.FirefoxUserPrefs, err = ToMap(v)
		case "headless":
			l.Headless, err = nullBool(v)
		case "ignore_default_args":
			l.IgnoreDefaultArgs, err = ToStringSlice(v)
		case "proxy":
			l.Proxy, err = parseProxy(v)
		case "slow_mo":
			l.SlowMo, err = nullFloat(v)
		case "timeout":
			l.Timeout, err = nullFloat(v)
		case "traces_dir":
			l.TracesDir, err = nullString(v)
		default:
			return unknownOption("browser launch", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

func parseProxy(v any) (*Proxy, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	var p Proxy
	err = Options(m).each(func(k string, v any) (err error) {
		switch k {
		case "server":
			p.Server, err = ToString(v)
		case "bypass":
			p.Bypass, err = nullString(v)
		case "username":
			p.Username, err = nullString(v)
		case "password":
			p.Password, err = nullString(v)
		default:
			return unknownOption("proxy", k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if p.Server == "" {
		return nil, fmt.Errorf("%w: proxy server is required", ErrInvalidValue)
	}
	return &p, nil
}
