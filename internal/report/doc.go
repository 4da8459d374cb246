// Package report renders scan results.
//
// This package contains writers for different output formats:
//   - TextWriter: colored, line oriented output for the terminal
//   - MarkdownWriter: a Markdown document for pull request comments and wikis
//
// Both list only files with at least one annotation, in scan order, and
// append the warning banner when the warn limit was exceeded.
package report
