// Package main provides the entry point for the labsite CLI.
//
// labsite builds and serves an academic homepage from two JSON documents:
// a configuration document (profile and research directions) and a
// publications document.
//
// Usage:
//
//	labsite serve
//	labsite build -o dist
//	labsite sync --orcid 0000-0002-7733-2498
//
// See --help for all available options.
package main

// main is the entry point for labsite.
func main() {
	Execute()
}
