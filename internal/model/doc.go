// Package model defines the core data structures shared by todolint.
//
// This package contains the following main types:
//   - TagDefinition: a configured tag as read from the configuration file
//   - DiscoveredFile: a regular file found by the walker
//   - Annotation: one tag match on one line
//   - FileReport: every annotation of one file
//   - ScanResult: the aggregate of a run and its threshold decision
//
// The types live in their own package so that the walker, scanner,
// pipeline and report writers can share them without import cycles.
package model
