// Package config provides configuration structures and utilities for labsite.
// It defines where the two page documents live, how the server and the
// build behave, and how the publications sync reaches ORCID.
//
// Values are resolved in this order, later sources winning:
//  1. Defaults from NewConfig
//  2. The .labsite project file (YAML)
//  3. LABSITE_* environment variables
//  4. Command line flags
package config
