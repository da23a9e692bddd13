// Package pkgconfig reads configuration through a small Config interface.
//
// Viper is the only implementation: it reads config/config.yaml, fills
// missing keys from defaults and lets GOTABULAR_* environment variables
// override both. Durations accept "200ms" style strings or bare
// milliseconds, and lists accept YAML sequences or comma separated strings,
// so every key can be set from the environment.
package pkgconfig
