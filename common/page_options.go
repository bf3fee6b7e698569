package common

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// LifecycleEvent is a navigation or load state the engine can wait for.
type LifecycleEvent string

// Lifecycle events. The zero value keeps the engine's default, which is
// LifecycleEventLoad.
const (
	LifecycleEventLoad             LifecycleEvent = "load"
	LifecycleEventDOMContentLoaded LifecycleEvent = "domcontentloaded"
	LifecycleEventNetworkIdle      LifecycleEvent = "networkidle"
	LifecycleEventCommit           LifecycleEvent = "commit"
)

func parseWaitUntil(v any) (LifecycleEvent, error) {
	s, err := enum(v,
		string(LifecycleEventLoad), string(LifecycleEventDOMContentLoaded),
		string(LifecycleEventNetworkIdle), string(LifecycleEventCommit),
	)
	return LifecycleEvent(s), err
}

// GotoOptions are the options of a page navigation.
type GotoOptions struct {
	Referer   null.String
	Timeout   null.Float
	WaitUntil LifecycleEvent
}

// NewGotoOptions returns navigation options with the engine's defaults.
func NewGotoOptions() *GotoOptions {
	return &GotoOptions{}
}

// Parse parses the named arguments of the go to keyword.
func (o *GotoOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "referer":
			o.Referer, err = nullString(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		case "wait_until":
			o.WaitUntil, err = parseWaitUntil(v)
		default:
			return unknownOption("page navigation", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// PageCloseOptions are the options of closing a page.
type PageCloseOptions struct {
	Reason          null.String
	RunBeforeUnload null.Bool
}

// NewPageCloseOptions returns page close options with the engine's defaults.
func NewPageCloseOptions() *PageCloseOptions {
	return &PageCloseOptions{}
}

// Parse parses the named arguments of the close page keyword.
func (o *PageCloseOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "reason":
			o.Reason, err = nullString(v)
		case "run_before_unload":
			o.RunBeforeUnload, err = nullBool(v)
		default:
			return unknownOption("page close", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// FrameOptions select a frame of a page by its name or by a URL glob.
type FrameOptions struct {
	Name null.String
	URL  null.String
}

// WaitForLoadStateOptions are the options of waiting for a load state.
type WaitForLoadStateOptions struct {
	State   LifecycleEvent
	Timeout null.Float
}

// NewWaitForLoadStateOptions returns options that wait for the load event
// with the engine's default timeout.
func NewWaitForLoadStateOptions() *WaitForLoadStateOptions {
	return &WaitForLoadStateOptions{State: LifecycleEventLoad}
}

// Parse parses the named arguments of the wait for load state keyword.
func (o *WaitForLoadStateOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "state":
			var s string
			s, err = enum(v,
				string(LifecycleEventLoad), string(LifecycleEventDOMContentLoaded),
				string(LifecycleEventNetworkIdle),
			)
			o.State = LifecycleEvent(s)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		default:
			return unknownOption("wait for load state", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// WaitForURLOptions are the options of waiting for the page URL.
type WaitForURLOptions struct {
	// Regex treats the URL argument as a regular expression instead of a glob.
	Regex     bool
	Timeout   null.Float
	WaitUntil LifecycleEvent
}

// NewWaitForURLOptions returns options that match the URL as a glob.
func NewWaitForURLOptions() *WaitForURLOptions {
	return &WaitForURLOptions{}
}

// Parse parses the named arguments of the wait for url keyword.
func (o *WaitForURLOptions) Parse(opts Options) error {
	return opts.each(func(k string, v any) (err error) {
		switch k {
		case "regex":
			o.Regex, err = ToBool(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		case "wait_until":
			o.WaitUntil, err = parseWaitUntil(v)
		default:
			return unknownOption("wait for url", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
}

// ImageFormat is a screenshot image format.
type ImageFormat string

// Screenshot image formats.
const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatJPEG ImageFormat = "jpeg"
)

// ScreenshotOptions are the options of taking a page screenshot.
type ScreenshotOptions struct {
	FullPage       null.Bool
	OmitBackground null.Bool
	Quality        null.Int
	Timeout        null.Float
	// Format is png when unset.
	Format ImageFormat
}

// NewScreenshotOptions returns screenshot options with the engine's defaults.
func NewScreenshotOptions() *ScreenshotOptions {
	return &ScreenshotOptions{}
}

// Parse parses the named arguments of the take screenshot keyword.
func (o *ScreenshotOptions) Parse(opts Options) error {
	err := opts.each(func(k string, v any) (err error) {
		switch k {
		case "full_page":
			o.FullPage, err = nullBool(v)
		case "omit_background":
			o.OmitBackground, err = nullBool(v)
		case "quality":
			o.Quality, err = nullInt(v)
		case "timeout":
			o.Timeout, err = nullFloat(v)
		case "type":
			var s string
			s, err = enum(v, string(ImageFormatPNG), string(ImageFormatJPEG))
			o.Format = ImageFormat(s)
		default:
			return unknownOption("screenshot", k)
		}
		if err != nil {
			return fmt.Errorf("parsing %q option: %w", k, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if o.Quality.Valid {
		if o.Format != ImageFormatJPEG {
			return fmt.Errorf("%w: quality is unsupported for png screenshots", ErrInvalidValue)
		}
		if o.Quality.Int64 < 0 || o.Quality.Int64 > 100 {
			return fmt.Errorf("%w: quality must be between 0 and 100, got %d", ErrInvalidValue, o.Quality.Int64)
		}
	}
	return nil
}
