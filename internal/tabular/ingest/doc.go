// Package ingest turns an arbitrary, possibly malformed delimited-text blob
// into a typed entity.Dataset.
//
// The pipeline runs leaves first:
//   - NormalizeLines strips the byte-order mark, unifies line endings and
//     drops blank and '#' comment lines.
//   - DetectDelimiter picks the candidate delimiter with the most consistent
//     field count over the leading lines.
//   - LocateHeader scores the first few lines as header candidates and
//     cleans the winning row into unique column names.
//   - MaterializeRows tokenizes the remaining lines, pads or truncates them
//     to the header width and coerces each field with Coerce.
//   - AssessQuality and ProfileColumns summarize the materialized records.
//
// Parsing is pure and synchronous: no I/O, no logging, no shared mutable
// state. Anomalies the engine repairs on its own are returned as
// entity.Diagnostic values on the Dataset. The only error is
// *InsufficientDataError.
package ingest
