// Package config provides the configuration of a todolint run: the scan
// roots, tag definitions, ignore patterns and warn policy read from the
// .todolintrc file, combined with command line overrides.
package config
