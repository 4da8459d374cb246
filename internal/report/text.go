package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/todolint/internal/model"
	"github.com/nao1215/todolint/internal/style"
)

// TextWriter writes one block per annotated file:
//
//	src/app.js
//	[Line  7]  TODO (alice): fix this
//	[Line 12]  FIXME: broken
//
// Line numbers are padded to the width of the largest one in the file.
type TextWriter struct {
	baseWriter
	palette *style.Palette
}

// NewTextWriter creates a TextWriter. A nil palette writes plain text.
func NewTextWriter(output io.Writer, palette *style.Palette, opts ...Option) *TextWriter {
	if palette == nil {
		palette = style.NewPalette(output, style.ModeNever)
	}
	return &TextWriter{
		baseWriter: newBaseWriter(output, opts),
		palette:    palette,
	}
}

// Write outputs every annotated file and, if the limit was exceeded, the banner.
func (w *TextWriter) Write(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	for _, report := range result.Reports {
		if !report.HasAnnotations() {
			continue
		}
		w.writeFile(&sb, report)
	}

	if result.Exceeded {
		sb.WriteString("\n")
		sb.WriteString(w.palette.Red(w.banner))
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}

// writeFile writes the header and annotation lines of one file.
func (w *TextWriter) writeFile(sb *strings.Builder, report *model.FileReport) {
	sb.WriteString(report.File.RelativePath)
	sb.WriteString("\n")

	width := report.LineWidth()
	for _, a := range report.Annotations {
		sb.WriteString(w.palette.White(fmt.Sprintf("[Line %*d] ", width, a.Line)))
		sb.WriteString(w.palette.Sprint(a.Text(), a.Style...))
		sb.WriteString("\n")
	}
}
