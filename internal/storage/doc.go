// Package storage handles the local files a run produces.
//
// The downloaded spreadsheet and the cleaned CSV are written through this
// package, which expands ~/ prefixes and creates missing parent directories
// before anything is written. Files are written in place; a failed run may
// leave a partial file behind.
package storage
