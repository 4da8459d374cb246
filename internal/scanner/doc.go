// Package scanner reads a single file line by line and collects the
// annotations found on each line.
//
// Lines may end with LF, CRLF or a lone CR. A CRLF pair is always one line
// ending. Input is decoded as UTF-8 unless it starts with a UTF-16 or UTF-8
// byte order mark, in which case the marked encoding is used and the mark
// is dropped.
package scanner
