package scrape

import "errors"

var (
	// ErrUnsupportedURL marks a URL that is neither a platform minutes page
	// nor a direct PDF. This is an explicit outcome, not a fault.
	ErrUnsupportedURL = errors.New("unsupported url")

	// ErrEmptyBody marks a fetch that completed without producing any body
	// text; callers treat it the same as a failed fetch.
	ErrEmptyBody = errors.New("fetch produced empty body")
)
