package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/todolint/internal/model"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dir, DBFileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if s.Path() != filepath.Join(dir, DBFileName) {
			t.Errorf("Path() = %q", s.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		id, err := s.SaveRun(context.Background(), Run{Project: "/p", RecordedAt: time.Unix(10, 0)})
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		_ = s.Close()

		s, err = Open(dir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s.Close()

		if _, err := s.GetRun(context.Background(), id); err != nil {
			t.Errorf("GetRun after reopen failed: %v", err)
		}
	})
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	run := Run{
		Project:     "/work/app",
		RecordedAt:  time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
		Files:       12,
		Annotations: 5,
		WarnTotal:   4,
		Limit:       intPtr(3),
		Exceeded:    true,
		TagCounts:   map[string]int{"TODO": 4, "NOTE": 1},
	}

	id, err := s.SaveRun(ctx, run)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned an empty id")
	}

	got, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.ID != id || got.Project != run.Project {
		t.Errorf("got id=%q project=%q", got.ID, got.Project)
	}
	if !got.RecordedAt.Equal(run.RecordedAt) {
		t.Errorf("RecordedAt = %v, want %v", got.RecordedAt, run.RecordedAt)
	}
	if got.Files != 12 || got.Annotations != 5 || got.WarnTotal != 4 {
		t.Errorf("counts = %d/%d/%d", got.Files, got.Annotations, got.WarnTotal)
	}
	if got.Limit == nil || *got.Limit != 3 {
		t.Errorf("Limit = %v, want 3", got.Limit)
	}
	if !got.Exceeded {
		t.Error("Exceeded should be true")
	}
	if got.TagCounts["TODO"] != 4 || got.TagCounts["NOTE"] != 1 {
		t.Errorf("TagCounts = %v", got.TagCounts)
	}
}

func TestSaveRunWithoutLimit(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, Run{ID: "fixed-id", Project: "/p", RecordedAt: time.Unix(1, 0)})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("id = %q, want fixed-id", id)
	}

	got, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Limit != nil {
		t.Errorf("Limit = %v, want nil", *got.Limit)
	}
	if got.TagCounts == nil || len(got.TagCounts) != 0 {
		t.Errorf("TagCounts = %v, want empty map", got.TagCounts)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	inputs := []Run{
		{Project: "/a", RecordedAt: base, WarnTotal: 1},
		{Project: "/a", RecordedAt: base.Add(time.Minute), WarnTotal: 2},
		{Project: "/b", RecordedAt: base.Add(2 * time.Minute), WarnTotal: 3},
		{Project: "/a", RecordedAt: base.Add(3 * time.Minute), WarnTotal: 4},
	}
	for _, r := range inputs {
		if _, err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		project string
		limit   int
		want    []int
	}{
		{name: "all projects newest first", project: "", limit: 0, want: []int{4, 3, 2, 1}},
		{name: "single project", project: "/a", limit: 0, want: []int{4, 2, 1}},
		{name: "limited", project: "/a", limit: 2, want: []int{4, 2}},
		{name: "unknown project", project: "/c", limit: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runs, err := s.ListRuns(ctx, tt.project, tt.limit)
			if err != nil {
				t.Fatalf("ListRuns failed: %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("got %d runs, want %d", len(runs), len(tt.want))
			}
			for i, r := range runs {
				if r.WarnTotal != tt.want[i] {
					t.Errorf("runs[%d].WarnTotal = %d, want %d", i, r.WarnTotal, tt.want[i])
				}
			}
		})
	}
}

func TestNewRun(t *testing.T) {
	t.Parallel()

	limit := 1
	result := &model.ScanResult{
		Reports: []*model.FileReport{
			{
				Annotations: []model.Annotation{{Line: 1, Tag: "TODO"}, {Line: 2, Tag: "FIXME"}},
				WarnCount:   1,
			},
			{
				Annotations: []model.Annotation{{Line: 3, Tag: "TODO"}},
				WarnCount:   1,
			},
			{},
		},
		Limit: &limit,
	}
	result.Evaluate()

	now := time.Unix(42, 0)
	run := NewRun("/work", result, now)

	if run.ID == "" {
		t.Error("ID should be generated")
	}
	if run.Files != 3 || run.Annotations != 3 || run.WarnTotal != 2 {
		t.Errorf("counts = %d/%d/%d", run.Files, run.Annotations, run.WarnTotal)
	}
	if !run.Exceeded {
		t.Error("Exceeded should be true")
	}
	if run.TagCounts["TODO"] != 2 || run.TagCounts["FIXME"] != 1 {
		t.Errorf("TagCounts = %v", run.TagCounts)
	}
	if !run.RecordedAt.Equal(now) || run.Project != "/work" {
		t.Errorf("RecordedAt=%v Project=%q", run.RecordedAt, run.Project)
	}
}
