// Package pipeline runs the four stages of a ward profile refresh: fetch the
// package metadata, locate the resource, download the spreadsheet, then clean
// it and write the CSV.
//
// Stages run strictly in order and any failure aborts the run. Expected
// failures (a non-200 answer, an unsuccessful metadata response, no matching
// resource) print a one-line diagnostic to the console and are reported by
// IsAborted; anything else is returned as an ordinary error.
package pipeline
