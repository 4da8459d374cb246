package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/todolint/internal/model"
)

// MarkdownWriter outputs results as a GitHub flavored Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, opts),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("todolint report")
	md.PlainText("")

	w.writeSummary(md, result)
	w.writeAlert(md, result)
	w.writeFiles(md, result)

	return len(md.String()), md.Build()
}

// writeSummary writes the counters table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.ScanResult) {
	annotated := 0
	for _, r := range result.Reports {
		if r.HasAnnotations() {
			annotated++
		}
	}

	limit := "none"
	if result.Limit != nil {
		limit = strconv.Itoa(*result.Limit)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Files scanned", strconv.Itoa(len(result.Reports))},
			{"Files with annotations", strconv.Itoa(annotated)},
			{"Annotations", strconv.Itoa(result.AnnotationCount())},
			{"Counted toward limit", strconv.Itoa(result.TotalWarn)},
			{"Limit", limit},
		},
	})
	md.PlainText("")
}

// writeAlert writes the banner as an alert when the limit was exceeded.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	switch {
	case result.Exceeded:
		md.Cautionf("%s", w.banner)
	case result.Limit != nil:
		md.Tip("Annotation count is within the configured limit.")
	default:
		return
	}
	md.PlainText("")
}

// writeFiles writes one section per annotated file.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, result *model.ScanResult) {
	for _, report := range result.Reports {
		if !report.HasAnnotations() {
			continue
		}

		md.H2(report.File.RelativePath)
		md.PlainText("")

		rows := make([][]string, 0, len(report.Annotations))
		for _, a := range report.Annotations {
			rows = append(rows, []string{
				strconv.Itoa(a.Line),
				escapeCell(a.Label),
				escapeCell(a.Description),
				escapeCell(strings.TrimSpace(a.Message)),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Line", "Tag", "Description", "Message"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// escapeCell keeps pipes inside a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
