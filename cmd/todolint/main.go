// Package main provides the entry point for the todolint CLI.
//
// todolint walks one or more directory trees, finds annotation comments
// such as TODO and FIXME and prints them per file. A warn limit turns the
// report into a gate: with warn.fail set, exceeding it exits with status 1.
//
// Usage:
//
//	todolint
//	todolint --root src --root test --limit 10 --fail
//	todolint init
//
// See --help for all available options.
package main

// main is the entry point for todolint.
func main() {
	Execute()
}
