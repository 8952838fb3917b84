package upstream

import "time"

// Client defaults
const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxRetries = 3
	DefaultUserAgent  = "ChocoboBot/1.0 (+https://github.com/osse101/ChocoboBot_Go)"

	// MaxBodyBytes caps a response body; full catalogs are a few MB
	MaxBodyBytes = 32 << 20
)
