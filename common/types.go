package common

// Cookie is a browser cookie as reported by the engine.
type Cookie struct {
	Name  string
	Value string

	Domain string
	Path   string

	// Expires is the Unix time in seconds, or -1 for session cookies.
	Expires  float64
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// ResponseInfo describes the main resource response of a navigation.
type ResponseInfo struct {
	URL        string
	Status     int
	StatusText string
	OK         bool
}
