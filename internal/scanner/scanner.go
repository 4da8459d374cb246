package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/todolint/internal/matcher"
	"github.com/nao1215/todolint/internal/model"
)

// DefaultMaxLineSize is the longest line the scanner accepts. Longer lines
// end the scan of the file with bufio.ErrTooLong.
const DefaultMaxLineSize = 16 * 1024 * 1024

// Scanner scans files for a fixed list of tags.
// A Scanner is safe for concurrent use; each Scan call owns its report.
type Scanner struct {
	tags        []*matcher.Tag
	diagnose    func(error)
	logger      *slog.Logger
	maxLineSize int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDiagnostics sets the function that receives per-match diagnostics,
// such as a *matcher.StyleError for a tag with an unknown style.
// It may be called from several goroutines at once.
func WithDiagnostics(fn func(error)) Option {
	return func(s *Scanner) {
		s.diagnose = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithMaxLineSize overrides DefaultMaxLineSize.
func WithMaxLineSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxLineSize = n
		}
	}
}

// New creates a Scanner that runs tags, in order, on every line.
func New(tags []*matcher.Tag, opts ...Option) *Scanner {
	s := &Scanner{
		tags:        tags,
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnose == nil {
		s.diagnose = func(error) {}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan opens file and scans it. It never returns nil. If the file cannot
// be opened or read, the report's Err is set and any annotations found
// before the failure are kept.
func (s *Scanner) Scan(ctx context.Context, file model.DiscoveredFile) *model.FileReport {
	f, err := os.Open(file.Path)
	if err != nil {
		report := model.NewFileReport(file)
		report.Err = fmt.Errorf("failed to open %s: %w", file.RelativePath, err)
		return report
	}
	defer f.Close()

	return s.ScanReader(ctx, file, f)
}

// ScanReader scans r as the content of file.
func (s *Scanner) ScanReader(ctx context.Context, file model.DiscoveredFile, r io.Reader) *model.FileReport {
	report := model.NewFileReport(file)

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	sc := bufio.NewScanner(decoded)
	initial := 64 * 1024
	if s.maxLineSize < initial {
		initial = s.maxLineSize
	}
	sc.Buffer(make([]byte, 0, initial), s.maxLineSize)
	sc.Split(splitLines)

	lineNumber := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			report.Err = err
			return report
		}
		lineNumber++
		s.scanLine(report, lineNumber, sc.Text())
	}
	if err := sc.Err(); err != nil {
		report.Err = fmt.Errorf("failed to read %s at line %d: %w", file.RelativePath, lineNumber+1, err)
	}

	s.logger.Debug("file scanned",
		"file", file.RelativePath,
		"lines", lineNumber,
		"annotations", len(report.Annotations),
	)
	return report
}

// scanLine runs every tag against one line.
func (s *Scanner) scanLine(report *model.FileReport, lineNumber int, line string) {
	for _, tag := range s.tags {
		annotation, ok := matcher.Match(line, tag)
		if !ok {
			continue
		}
		if err := tag.StyleErr(); err != nil {
			s.diagnose(err)
			continue
		}
		annotation.Line = lineNumber
		report.Annotations = append(report.Annotations, annotation)
		if tag.WarnEligible {
			report.WarnCount++
		}
	}
}
