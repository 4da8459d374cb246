package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/todolint/internal/filter"
	"github.com/nao1215/todolint/internal/model"
)

// Walker walks directory trees, pruning paths rejected by its filter.
type Walker struct {
	filter  *filter.Filter
	baseDir string
	logger  *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithBaseDir sets the directory that relative paths are computed from.
// Relative scan roots are resolved against it too.
func WithBaseDir(dir string) Option {
	return func(w *Walker) {
		w.baseDir = dir
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker. A nil filter allows every path.
func New(f *filter.Filter, opts ...Option) *Walker {
	w := &Walker{filter: f}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Walk returns every allowed regular file below root.
//
// An unreadable directory or an entry that cannot be stat'ed does not stop
// the walk: the error is recorded and the remaining entries are still
// visited. The returned error joins every such failure and is nil for a
// clean walk. The file list is valid in both cases.
func (w *Walker) Walk(ctx context.Context, root string) ([]model.DiscoveredFile, error) {
	base, err := w.base()
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	root = filepath.Clean(root)

	w.logger.Debug("walking root", "root", root)
	return w.walkDir(ctx, base, root, nil)
}

// base returns the configured base directory, or the working directory.
func (w *Walker) base() (string, error) {
	if w.baseDir != "" {
		return filepath.Abs(w.baseDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// walkDir lists dir and examines every entry concurrently. ancestors holds
// the resolved paths of the directories above dir and is used to stop
// symlink cycles.
func (w *Walker) walkDir(ctx context.Context, base, dir string, ancestors []string) ([]model.DiscoveredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if slices.Contains(ancestors, resolved) {
		w.logger.Debug("skipping symlink cycle", "dir", dir, "target", resolved)
		return nil, nil
	}
	ancestors = append(slices.Clip(ancestors), resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	slots := make([][]model.DiscoveredFile, len(entries))
	errs := make([]error, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		g.Go(func() error {
			slots[i], errs[i] = w.visit(ctx, base, filepath.Join(dir, entry.Name()), ancestors)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // visit reports through errs

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	files := make([]model.DiscoveredFile, 0, total)
	for _, s := range slots {
		files = append(files, s...)
	}
	return files, errors.Join(errs...)
}

// visit classifies one directory entry and returns the files it contributes.
func (w *Walker) visit(ctx context.Context, base, path string, ancestors []string) ([]model.DiscoveredFile, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}

	switch {
	case info.IsDir():
		if !w.filter.Allowed(rel) {
			w.logger.Debug("directory ignored", "path", rel)
			return nil, nil
		}
		return w.walkDir(ctx, base, path, ancestors)
	case info.Mode().IsRegular():
		if !w.filter.Allowed(rel) {
			return nil, nil
		}
		return []model.DiscoveredFile{{Path: path, RelativePath: rel}}, nil
	default:
		w.logger.Debug("skipping special file", "path", rel, "mode", info.Mode().Type())
		return nil, nil
	}
}
