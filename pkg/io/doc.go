// Package io reads and writes brick snapshots.
//
// # Line Format
//
// The native format is one brick per line, two corners separated by '~':
//
//	1,0,1~1,2,1
//	0,0,2~2,0,2
//
// A brick's ID is its 0-based position among the non-blank lines. Blank lines
// are skipped and do not consume an ID. Errors name the 1-based line number of
// the offending line.
//
// # JSON Format
//
// Snapshots can also be exchanged as JSON, which is what the HTTP API accepts:
//
//	{"bricks": [{"lo": {"x": 1, "y": 0, "z": 1}, "hi": {"x": 1, "y": 2, "z": 1}}]}
//
// IDs in JSON input are ignored and reassigned by position.
//
// # Import and Export
//
// [ImportBricks] reads a file, choosing the format from its extension
// (".json" for JSON, anything else for lines). [ExportBricks] writes settled
// bricks back out. A settled snapshot is a fixed point: settling it again
// moves nothing.
package io
