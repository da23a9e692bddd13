// Package pkgerror defines the structured error type shared by handlers and
// business code.
//
// An Error carries a user-facing message, a Type and a Code. Codes map to
// HTTP statuses at the edge, including 413 for oversized uploads and 422 for
// documents that parse but hold no usable table. ErrNotFound is the sentinel
// stores return for unknown keys.
package pkgerror
