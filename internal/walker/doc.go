// Package walker enumerates the files below a scan root.
//
// Every entry of a directory is examined in its own goroutine and every
// allowed sub-directory is walked concurrently. The results of one
// directory are joined before it returns, and they are assembled in
// directory listing order so that two walks of an unchanged tree return
// the same list.
//
// Paths handed to the ignore filter are relative to the base directory,
// which is the process working directory unless WithBaseDir is given.
// This means ignore patterns are always written relative to the project
// root, even when a scan root is nested deeper.
//
// There is no limit on the number of directories read or stat calls in
// flight at once.
package walker
