package engine

import (
	"github.com/playwright-community/playwright-go"
	"gopkg.in/guregu/null.v3"

	"github.com/playbot-dev/playbot/common"
)

// enumPtr converts a string enum to the engine's enum type. The empty string
// leaves the option unset.
func enumPtr[T ~string, S ~string](s S) *T {
	if s == "" {
		return nil
	}
	v := T(s)
	return &v
}

func intPtr(i null.Int) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

func sizePtr(s *common.Size) *playwright.Size {
	if s == nil {
		return nil
	}
	return &playwright.Size{Width: int(s.Width), Height: int(s.Height)}
}

func launchOptions(o *common.LaunchOptions) playwright.BrowserTypeLaunchOptions {
	if o == nil {
		return playwright.BrowserTypeLaunchOptions{}
	}
	opts := playwright.BrowserTypeLaunchOptions{
		Args:              o.Args,
		Channel:           o.Channel.Ptr(),
		ChromiumSandbox:   o.ChromiumSandbox.Ptr(),
		DownloadsPath:     o.DownloadsPath.Ptr(),
		Env:               o.Env,
		ExecutablePath:    o.ExecutablePath.Ptr(),
		FirefoxUserPrefs:  o.FirefoxUserPrefs,
		Headless:          o.Headless.Ptr(),
		IgnoreDefaultArgs: o.IgnoreDefaultArgs,
		SlowMo:            o.SlowMo.Ptr(),
		Timeout:           o.Timeout.Ptr(),
		TracesDir:         o.TracesDir.Ptr(),
	}
	if p := o.Proxy; p != nil {
		opts.Proxy = &playwright.Proxy{
			Server:   p.Server,
			Bypass:   p.Bypass.Ptr(),
			Username: p.Username.Ptr(),
			Password: p.Password.Ptr(),
		}
	}
	return opts
}

func contextOptions(o *common.BrowserContextOptions) playwright.BrowserNewContextOptions {
	if o == nil {
		return playwright.BrowserNewContextOptions{}
	}
	opts := playwright.BrowserNewContextOptions{
		AcceptDownloads:   o.AcceptDownloads.Ptr(),
		BaseURL:           o.BaseURL.Ptr(),
		BypassCSP:         o.BypassCSP.Ptr(),
		ColorScheme:       enumPtr[playwright.ColorScheme](o.ColorScheme),
		DeviceScaleFactor: o.DeviceScaleFactor.Ptr(),
		ExtraHttpHeaders:  o.ExtraHTTPHeaders,
		HasTouch:          o.HasTouch.Ptr(),
		IgnoreHttpsErrors: o.IgnoreHTTPSErrors.Ptr(),
		IsMobile:          o.IsMobile.Ptr(),
		JavaScriptEnabled: o.JavaScriptEnabled.Ptr(),
		Locale:            o.Locale.Ptr(),
		NoViewport:        o.NoViewport.Ptr(),
		Offline:           o.Offline.Ptr(),
		Permissions:       o.Permissions,
		ReducedMotion:     enumPtr[playwright.ReducedMotion](o.ReducedMotion),
		Screen:            sizePtr(o.Screen),
		TimezoneId:        o.TimezoneID.Ptr(),
		UserAgent:         o.UserAgent.Ptr(),
		Viewport:          sizePtr(o.Viewport),
	}
	if g := o.Geolocation; g != nil {
		opts.Geolocation = &playwright.Geolocation{
			Latitude:  g.Latitude,
			Longitude: g.Longitude,
			Accuracy:  g.Accuracy.Ptr(),
		}
	}
	if c := o.HTTPCredentials; c != nil {
		opts.HttpCredentials = &playwright.HttpCredentials{
			Username: c.Username,
			Password: c.Password,
			Origin:   c.Origin.Ptr(),
		}
	}
	return opts
}

func modifiers(mods []string) []playwright.KeyboardModifier {
	if len(mods) == 0 {
		return nil
	}
	km := make([]playwright.KeyboardModifier, 0, len(mods))
	for _, m := range mods {
		km = append(km, playwright.KeyboardModifier(m))
	}
	return km
}

func position(p *common.Position) *playwright.Position {
	if p == nil {
		return nil
	}
	return &playwright.Position{X: p.X, Y: p.Y}
}

func pageClickOptions(o *common.ClickOptions) playwright.PageClickOptions {
	if o == nil {
		return playwright.PageClickOptions{}
	}
	return playwright.PageClickOptions{
		Button:      enumPtr[playwright.MouseButton](o.Button),
		ClickCount:  intPtr(o.ClickCount),
		Delay:       o.Delay.Ptr(),
		Force:       o.Force.Ptr(),
		Modifiers:   modifiers(o.Modifiers),
		NoWaitAfter: o.NoWaitAfter.Ptr(),
		Position:    position(o.Position),
		Strict:      o.Strict.Ptr(),
		Timeout:     o.Timeout.Ptr(),
		Trial:       o.Trial.Ptr(),
	}
}

// elementClickOptions drops Strict: an element click has no selector to
// resolve.
func elementClickOptions(o *common.ClickOptions) playwright.ElementHandleClickOptions {
	if o == nil {
		return playwright.ElementHandleClickOptions{}
	}
	return playwright.ElementHandleClickOptions{
		Button:      enumPtr[playwright.MouseButton](o.Button),
		ClickCount:  intPtr(o.ClickCount),
		Delay:       o.Delay.Ptr(),
		Force:       o.Force.Ptr(),
		Modifiers:   modifiers(o.Modifiers),
		NoWaitAfter: o.NoWaitAfter.Ptr(),
		Position:    position(o.Position),
		Timeout:     o.Timeout.Ptr(),
		Trial:       o.Trial.Ptr(),
	}
}

func isVisibleOptions(o *common.IsVisibleOptions) playwright.PageIsVisibleOptions {
	if o == nil {
		return playwright.PageIsVisibleOptions{}
	}
	return playwright.PageIsVisibleOptions{
		Strict:  o.Strict.Ptr(),
		Timeout: o.Timeout.Ptr(),
	}
}

func pageWaitForSelectorOptions(o *common.WaitForSelectorOptions) playwright.PageWaitForSelectorOptions {
	if o == nil {
		return playwright.PageWaitForSelectorOptions{}
	}
	return playwright.PageWaitForSelectorOptions{
		State:   enumPtr[playwright.WaitForSelectorState](o.State),
		Strict:  o.Strict.Ptr(),
		Timeout: o.Timeout.Ptr(),
	}
}

func elementWaitForSelectorOptions(o *common.WaitForSelectorOptions) playwright.ElementHandleWaitForSelectorOptions {
	if o == nil {
		return playwright.ElementHandleWaitForSelectorOptions{}
	}
	return playwright.ElementHandleWaitForSelectorOptions{
		State:   enumPtr[playwright.WaitForSelectorState](o.State),
		Strict:  o.Strict.Ptr(),
		Timeout: o.Timeout.Ptr(),
	}
}

func gotoOptions(o *common.GotoOptions) playwright.PageGotoOptions {
	if o == nil {
		return playwright.PageGotoOptions{}
	}
	return playwright.PageGotoOptions{
		Referer:   o.Referer.Ptr(),
		Timeout:   o.Timeout.Ptr(),
		WaitUntil: enumPtr[playwright.WaitUntilState](o.WaitUntil),
	}
}

func pageCloseOptions(o *common.PageCloseOptions) playwright.PageCloseOptions {
	if o == nil {
		return playwright.PageCloseOptions{}
	}
	return playwright.PageCloseOptions{
		Reason:          o.Reason.Ptr(),
		RunBeforeUnload: o.RunBeforeUnload.Ptr(),
	}
}

func frameOptions(o common.FrameOptions) playwright.PageFrameOptions {
	opts := playwright.PageFrameOptions{Name: o.Name.Ptr()}
	if o.URL.Valid {
		opts.URL = o.URL.String
	}
	return opts
}

func waitForLoadStateOptions(o *common.WaitForLoadStateOptions) playwright.PageWaitForLoadStateOptions {
	if o == nil {
		return playwright.PageWaitForLoadStateOptions{}
	}
	return playwright.PageWaitForLoadStateOptions{
		State:   enumPtr[playwright.LoadState](o.State),
		Timeout: o.Timeout.Ptr(),
	}
}

func waitForURLOptions(o *common.WaitForURLOptions) playwright.PageWaitForURLOptions {
	if o == nil {
		return playwright.PageWaitForURLOptions{}
	}
	return playwright.PageWaitForURLOptions{
		Timeout:   o.Timeout.Ptr(),
		WaitUntil: enumPtr[playwright.WaitUntilState](o.WaitUntil),
	}
}

func screenshotOptions(o *common.ScreenshotOptions) playwright.PageScreenshotOptions {
	if o == nil {
		return playwright.PageScreenshotOptions{}
	}
	return playwright.PageScreenshotOptions{
		FullPage:       o.FullPage.Ptr(),
		OmitBackground: o.OmitBackground.Ptr(),
		Quality:        intPtr(o.Quality),
		Timeout:        o.Timeout.Ptr(),
		Type:           enumPtr[playwright.ScreenshotType](o.Format),
	}
}

func cookies(cs []playwright.Cookie) []common.Cookie {
	out := make([]common.Cookie, 0, len(cs))
	for _, c := range cs {
		cookie := common.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		out = append(out, cookie)
	}
	return out
}
