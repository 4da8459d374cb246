package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/todolint/internal/config"
	"github.com/nao1215/todolint/internal/log"
	"github.com/nao1215/todolint/internal/model"
	"github.com/nao1215/todolint/internal/style"
)

type fakeWalker struct {
	files map[string][]model.DiscoveredFile
	errs  map[string]error
}

func (w *fakeWalker) Walk(_ context.Context, root string) ([]model.DiscoveredFile, error) {
	return w.files[root], w.errs[root]
}

// fakeScanner reports warn counts by relative path.
type fakeScanner struct {
	warn map[string]int
	errs map[string]error

	mu      sync.Mutex
	scanned []string
}

func (s *fakeScanner) Scan(_ context.Context, file model.DiscoveredFile) *model.FileReport {
	s.mu.Lock()
	s.scanned = append(s.scanned, file.RelativePath)
	s.mu.Unlock()

	report := model.NewFileReport(file)
	for i := range s.warn[file.RelativePath] {
		report.Annotations = append(report.Annotations, model.Annotation{Line: i + 1, Tag: "TODO"})
	}
	report.WarnCount = s.warn[file.RelativePath]
	report.Err = s.errs[file.RelativePath]
	return report
}

func df(rel string) model.DiscoveredFile {
	return model.DiscoveredFile{Path: "/work/" + rel, RelativePath: rel}
}

func intPtr(n int) *int { return &n }

func TestAggregatorRun(t *testing.T) {
	t.Parallel()

	t.Run("reports follow root order then walk order", func(t *testing.T) {
		t.Parallel()

		w := &fakeWalker{files: map[string][]model.DiscoveredFile{
			"src":  {df("src/a.js"), df("src/b.js")},
			"test": {df("test/c.js")},
		}}
		s := &fakeScanner{warn: map[string]int{"src/a.js": 1, "test/c.js": 2}}

		result, err := NewAggregator(w, s, WithLogger(log.Discard())).Run(context.Background(), []string{"test", "src"})
		require.NoError(t, err)

		got := make([]string, 0, len(result.Reports))
		for _, r := range result.Reports {
			got = append(got, r.File.RelativePath)
		}
		assert.Equal(t, []string{"test/c.js", "src/a.js", "src/b.js"}, got)
		assert.Equal(t, 3, result.TotalWarn)
		assert.Nil(t, result.Limit)
		assert.False(t, result.Exceeded)
		assert.ElementsMatch(t, got, s.scanned)
	})

	t.Run("limit boundaries", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			limit    *int
			total    int
			exceeded bool
		}{
			{name: "no limit", limit: nil, total: 5, exceeded: false},
			{name: "equal to limit", limit: intPtr(3), total: 3, exceeded: false},
			{name: "one above limit", limit: intPtr(3), total: 4, exceeded: true},
			{name: "zero limit with one", limit: intPtr(0), total: 1, exceeded: true},
			{name: "zero limit with none", limit: intPtr(0), total: 0, exceeded: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				w := &fakeWalker{files: map[string][]model.DiscoveredFile{".": {df("a.js")}}}
				s := &fakeScanner{warn: map[string]int{"a.js": tt.total}}

				result, err := NewAggregator(w, s, WithLimit(tt.limit), WithLogger(log.Discard())).
					Run(context.Background(), []string{"."})
				require.NoError(t, err)
				assert.Equal(t, tt.total, result.TotalWarn)
				assert.Equal(t, tt.exceeded, result.Exceeded)
				assert.Equal(t, tt.exceeded, result.Failed(true))
				assert.False(t, result.Failed(false))
			})
		}
	})

	t.Run("walk and read errors are collected", func(t *testing.T) {
		t.Parallel()

		errWalk := errors.New("permission denied")
		errRead := errors.New("read failed")

		w := &fakeWalker{
			files: map[string][]model.DiscoveredFile{".": {df("a.js"), df("b.js")}},
			errs:  map[string]error{".": errWalk},
		}
		s := &fakeScanner{
			warn: map[string]int{"a.js": 1, "b.js": 1},
			errs: map[string]error{"b.js": errRead},
		}

		result, err := NewAggregator(w, s, WithLogger(log.Discard())).Run(context.Background(), []string{"."})
		require.NoError(t, err)
		require.Len(t, result.Reports, 2)
		assert.Equal(t, 2, result.TotalWarn)
		require.Len(t, result.Errors, 2)
		assert.ErrorIs(t, result.Errors[0], errWalk)
		assert.ErrorIs(t, result.Errors[1], errRead)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := &fakeScanner{}
		result, err := NewAggregator(&fakeWalker{}, s, WithLogger(log.Discard())).Run(ctx, []string{"."})
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Empty(t, result.Reports)
		assert.Empty(t, s.scanned)
	})
}

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	newConfig := func() *config.Config {
		cfg := config.NewConfig()
		cfg.Tags = []model.TagDefinition{
			{Name: "TODO", Regex: "TODO", Label: "TODO"},
			{Name: "FIXME", Regex: "FIXME", Label: "FIXME", Style: []string{"red"}},
		}
		cfg.Ignore = []string{"vendor/**"}
		cfg.WarnTags = []string{"TODO"}
		return cfg
	}

	t.Run("end to end scan", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir, map[string]string{
			"a.js":               "// TODO(alice): fix this\n",
			"src/b.js":           "// FIXME: broken\n// TODO: later\n",
			"vendor/lib/file.js": "// TODO: not ours\n",
		})

		cfg := newConfig()
		cfg.WarnLimit = intPtr(1)

		agg, err := FromConfig(cfg, Setup{BaseDir: dir, Logger: log.Discard()})
		require.NoError(t, err)

		result, err := agg.Run(context.Background(), cfg.Roots)
		require.NoError(t, err)
		require.Empty(t, result.Errors)

		byPath := make(map[string]*model.FileReport)
		for _, r := range result.Reports {
			byPath[filepath.ToSlash(r.File.RelativePath)] = r
		}
		assert.NotContains(t, byPath, "vendor/lib/file.js")
		require.Contains(t, byPath, "a.js")
		require.Contains(t, byPath, "src/b.js")

		a := byPath["a.js"]
		require.Len(t, a.Annotations, 1)
		assert.Equal(t, " TODO (alice): fix this ", a.Annotations[0].Text())

		b := byPath["src/b.js"]
		require.Len(t, b.Annotations, 2)
		assert.Equal(t, "FIXME", b.Annotations[0].Tag)
		assert.Equal(t, 1, b.WarnCount)

		assert.Equal(t, 2, result.TotalWarn)
		assert.True(t, result.Exceeded)
	})

	t.Run("invalid style is reported and skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTree(t, dir, map[string]string{
			"x.go": "// NOTE: one\n// NOTE: two\n",
		})

		cfg := newConfig()
		cfg.Tags = append(cfg.Tags, model.TagDefinition{Name: "NOTE", Regex: "NOTE", Label: "NOTE", Style: []string{"blinking"}})

		var (
			mu    sync.Mutex
			diags []error
		)
		agg, err := FromConfig(cfg, Setup{
			BaseDir: dir,
			Logger:  log.Discard(),
			Diagnostics: func(err error) {
				mu.Lock()
				defer mu.Unlock()
				diags = append(diags, err)
			},
		})
		require.NoError(t, err)

		result, err := agg.Run(context.Background(), cfg.Roots)
		require.NoError(t, err)
		require.Len(t, result.Reports, 1)
		assert.Empty(t, result.Reports[0].Annotations)

		require.Len(t, diags, 2)
		assert.ErrorIs(t, diags[0], style.ErrUnknownStyle)
		assert.Equal(t, `Style "blinking" is not valid. Tag "NOTE" skipped.`, diags[0].Error())
	})

	t.Run("invalid regex", func(t *testing.T) {
		t.Parallel()

		cfg := newConfig()
		cfg.Tags = []model.TagDefinition{{Name: "BAD", Regex: "(", Label: "BAD"}}

		_, err := FromConfig(cfg, Setup{Logger: log.Discard()})
		require.Error(t, err)
	})

	t.Run("invalid ignore pattern", func(t *testing.T) {
		t.Parallel()

		cfg := newConfig()
		cfg.Ignore = []string{"[abc"}

		_, err := FromConfig(cfg, Setup{Logger: log.Discard()})
		require.Error(t, err)
	})
}
