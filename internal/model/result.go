package model

import "strconv"

// FileReport holds the annotations found in a single file.
// It is produced once per file and not modified after the scan of that
// file completes.
type FileReport struct {
	// File is the scanned file.
	File DiscoveredFile `json:"file"`

	// Annotations are in line order, and in configured tag order within a line.
	Annotations []Annotation `json:"annotations,omitempty"`

	// WarnCount is the number of annotations whose tag counts toward the
	// warn limit.
	WarnCount int `json:"warn_count"`

	// Err is set when the file could not be opened or read to the end.
	// Annotations found before the failure are kept.
	Err error `json:"-"`
}

// NewFileReport creates an empty report for file.
func NewFileReport(file DiscoveredFile) *FileReport {
	return &FileReport{
		File:        file,
		Annotations: make([]Annotation, 0),
	}
}

// HasAnnotations reports whether at least one annotation was recorded.
func (r *FileReport) HasAnnotations() bool {
	return len(r.Annotations) > 0
}

// LineWidth returns the number of digits of the largest line number
// recorded in the report. Line numbers are padded to this width.
func (r *FileReport) LineWidth() int {
	width := 0
	for _, a := range r.Annotations {
		if w := len(strconv.Itoa(a.Line)); w > width {
			width = w
		}
	}
	return width
}

// ScanResult is the aggregate outcome of one run over every scan root.
type ScanResult struct {
	// Reports are in discovery order: root order, then walk order.
	Reports []*FileReport `json:"reports"`

	// TotalWarn is the sum of WarnCount over all reports.
	TotalWarn int `json:"total_warn"`

	// Limit is the configured warn limit. Nil means no limit.
	Limit *int `json:"limit,omitempty"`

	// Exceeded is true when a limit is set and TotalWarn is greater than it.
	Exceeded bool `json:"exceeded"`

	// Errors collects non-fatal walk and read errors.
	Errors []error `json:"-"`
}

// Evaluate computes TotalWarn and Exceeded from the reports and limit.
func (r *ScanResult) Evaluate() {
	total := 0
	for _, rep := range r.Reports {
		total += rep.WarnCount
	}
	r.TotalWarn = total
	r.Exceeded = r.Limit != nil && total > *r.Limit
}

// Failed reports whether the run must signal failure under the given
// warn.fail setting.
func (r *ScanResult) Failed(failOnExceed bool) bool {
	return failOnExceed && r.Exceeded
}

// AnnotationCount returns the number of annotations across all reports.
func (r *ScanResult) AnnotationCount() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Annotations)
	}
	return n
}

// TagCounts returns the number of annotations per tag name.
func (r *ScanResult) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, rep := range r.Reports {
		for _, a := range rep.Annotations {
			counts[a.Tag]++
		}
	}
	return counts
}
