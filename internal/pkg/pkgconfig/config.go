package pkgconfig

import "time"

// Config is the read-only view of configuration business code depends on.
// Missing keys return the zero value.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetStrings(key string) []string
	Close() error
}
