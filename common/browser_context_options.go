package common

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// ColorScheme represents a browser color scheme.
type ColorScheme string

// Valid color schemes. The zero value keeps the engine's default.
const (
	ColorSchemeLight        ColorScheme = "light"
	ColorSchemeDark         ColorScheme = "dark"
	ColorSchemeNoPreference ColorScheme = "no-preference"
)

// ReducedMotion represents a browser reduce-motion setting.
type ReducedMotion string

// Valid reduce-motion options. The zero value keeps the engine's default.
const (
	ReducedMotionReduce       ReducedMotion = "reduce"
	ReducedMotionNoPreference ReducedMotion = "no-preference"
)

// Size is a width and height pair in CSS pixels.
type Size struct {
	Width  int64
	Height int64
}

// Geolocation represents a geolocation.
type Geolocation struct {
	Latitude  float64
	Longitude float64
	Accuracy  null.Float
}

// Validate validates the geolocation.
func (g *Geolocation) Validate() error {
	if g == nil {
		return nil // nothing to validate
	}

	if g.Accuracy.Valid && g.Accuracy.Float64 < 0 {
		return fmt.Errorf(`invalid accuracy "%.2f": precondition 0 <= ACCURACY failed`, g.Accuracy.Float64)
	}
	if g.Latitude < -90 || g.Latitude > 90 {
		return fmt.Errorf(`invalid latitude "%.2f": precondition -90 <= LATITUDE <= 90 failed`, g.Latitude)
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return fmt.Errorf(`invalid longitude "%.2f": precondition -180 <= LONGITUDE <= 180 failed`, g.Longitude)
	}

	return nil
}

// Credentials holds HTTP authentication credentials.
type Credentials struct {
	Username string
	Password string
	Origin   null.String
}

// BrowserContextOptions stores browser context options. Unset fields keep
// the engine's defaults.
type BrowserContextOptions struct {
	AcceptDownloads   null.Bool
	BaseURL           null.String
	BypassCSP         null.Bool
	ColorScheme       ColorScheme
	DeviceScaleFactor null.Float
	ExtraHTTPHeaders  map[string]string
	Geolocation       *Geolocation
	HasTouch          null.Bool
	HTTPCredentials   *Credentials
	IgnoreHTTPSErrors null.Bool
	IsMobile          null.Bool
	JavaScriptEnabled null.Bool
	Locale            null.String
	NoViewport        null.Bool
	Offline           null.Bool
	Permissions       []string
	ReducedMotion     ReducedMotion
	Screen            *Size
	TimezoneID        null.String
	UserAgent         null.String
	Viewport          *Size
}

// NewBrowserContextOptions creates browser context options that leave every
// setting to the engine.
func NewBrowserContextOptions() *BrowserContextOptions {
	return &BrowserContextOptions{}
}

// Validate validates the browser context options.
func (b *BrowserContextOptions) Validate() error {
	if err := b.Geolocation.Validate(); err != nil {
		return fmt.Errorf("validating geolocation option: %w", err)
	}
	if b.NoViewport.Bool && b.Viewport != nil {
		return fmt.Errorf("%w: viewport and no_viewport are mutually exclusive", ErrInvalidValue)
	}

	return nil
}

// Parse parses the named arguments of the new context keyword and validates
// the result.
func (b *BrowserContextOptions) Parse(opts Options) error { //nolint:funlen,gocognit,cyclop
	err := opts.each(func(k string, v any) (err error) {
		switch k {
		case "accept_downloads":
			b.AcceptDownloads, err = nullBool(v)
		case "base_url":
			b.BaseURL, err = nullString(v)
		case "bypass_csp":
			b.BypassCSP, err = nullBool(v)
		case "color_scheme":
			var s string
			s, err = enum(v, string(ColorSchemeLight), string(ColorSchemeDark), string(ColorSchemeNoPreference))
			b.ColorScheme = ColorScheme(s)
		case "device_scale_factor":
			b.DeviceScaleFactor, err = nullFloat(v)
		case "extra_http_headers":
			b.ExtraHTTPHeaders, err = ToStringMap(v)
		case "geolocation":
			b.Geolocation, err = parseGeolocation(v)
		case "has_touch":
			b.HasTouch, err = nullBool(v)
		case "http_credentials":
			b.HTTPCredentials, err = parseCredentials(v)
		case "ignore_https_errors":
			b.IgnoreHTTPSErrors, err = nullBool(v)
		case "is_mobile":
			b.IsMobile, err = nullBool(v)
		case "java_script_enabled":
			b.JavaScriptEnabled, err = nullBool(v)
		case "locale":
			b.Locale, err = nullString(v)
		case "no_viewport":
			b.NoViewport, err = nullBool(v)
		case "offline":
			b.Offline, err = nullBool(v)
		case "permissions":
			b.Permissions, err = ToStringSlice(v)
		case "reduced_motion":
			var s string
			s, err = enum(v, string(ReducedMotionReduce), string(ReducedMotionNoPreference))
			b.ReducedMotion = ReducedMotion(s)
		case "screen":
			b.Screen, err = parseSize(v)
		case "timezone_id":
			b.TimezoneID, err = nullString(v)
		case "user_agent":
			b.UserAgent, err = nullString(v)
		case "viewport":
			b.Viewport, err = parseSize(v)
		default:
			return unknownOption("browser context", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return b.Validate()
}

func parseSize(v any) (*Size, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	var s Size
	err = Options(m).each(func(k string, v any) (err error) {
		switch k {
		case "width":
			s.Width, err = toEngineInt(v)
		case "height":
			s.Height, err = toEngineInt(v)
		default:
			return unknownOption("size", k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be positive, got %dx%d", ErrInvalidValue, s.Width, s.Height)
	}
	return &s, nil
}

func parseGeolocation(v any) (*Geolocation, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	var g Geolocation
	err = Options(m).each(func(k string, v any) (err error) {
		switch k {
		case "latitude":
			g.Latitude, err = ToFloat(v)
		case "longitude":
			g.Longitude, err = ToFloat(v)
		case "accuracy":
			g.Accuracy, err = nullFloat(v)
		default:
			return unknownOption("geolocation", k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func parseCredentials(v any) (*Credentials, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	var c Credentials
	err = Options(m).each(func(k string, v any) (err error) {
		switch k {
		case "username":
			c.Username, err = ToString(v)
		case "password":
			c.Password, err = ToString(v)
		case "origin":
			c.Origin, err = nullString(v)
		default:
			return unknownOption("http credentials", k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
