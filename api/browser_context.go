package api

import "github.com/playbot-dev/playbot/common"

// BrowserContext is an isolated browsing session within a browser.
type BrowserContext interface {
	Close() error
	// Cookies returns all cookies when urls is empty and the cookies that
	// affect any of urls otherwise.
	Cookies(urls ...string) ([]common.Cookie, error)
	NewPage() (Page, error)
}
