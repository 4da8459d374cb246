// Package filter decides whether a path is excluded by ignore patterns.
//
// Patterns use glob syntax compatible with minimatch in dot mode:
//   - "*" matches any run of characters within one path segment
//   - "**" matches any number of path segments
//   - "?", "[abc]" and "{a,b}" work as usual
//   - wildcards match names that start with a dot
//   - a leading "#" makes the pattern a comment
//   - a leading "!" negates the pattern: every path it does not match is excluded
//
// Paths are matched relative to the working directory the scan was started
// from, using forward slashes on every platform.
package filter
