// Package pkguid provides helpers for generating unique identifiers.
//
// Uploads are keyed by time-ordered UUIDs (StringID) and quality alerts by
// Snowflake IDs (NumberID), so consumers can deduplicate redelivered events
// by a cheap integer key.
package pkguid
