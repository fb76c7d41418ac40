// Package source reads the two homepage documents.
//
// A document location is either a local path, resolved against the working
// directory, or an http(s) URL. Reads are size-capped and, when a timeout
// is configured, time-bounded; by default they wait as long as it takes.
//
// The configuration document is all-or-nothing: a read error, a decode
// error or a JSON null all mean "no configuration". The publications
// document decodes as an array of records; callers treat any error as an
// empty list.
package source
