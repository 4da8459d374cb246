package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/todolint/internal/filter"
	"github.com/nao1215/todolint/internal/model"
)

// makeTree creates files (with parent directories) below dir.
func makeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("// TODO: x\n"), 0o600))
	}
}

func relPaths(files []model.DiscoveredFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.ToSlash(f.RelativePath))
	}
	return out
}

func mustFilter(t *testing.T, patterns ...string) *filter.Filter {
	t.Helper()
	f, err := filter.New(patterns...)
	require.NoError(t, err)
	return f
}

func TestWalk(t *testing.T) {
	t.Parallel()

	t.Run("finds nested files in listing order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, "b.js", "a/x.js", "a/b/c.js", ".hidden/y.js")

		files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), ".")
		require.NoError(t, err)
		assert.Equal(t, []string{".hidden/y.js", "a/b/c.js", "a/x.js", "b.js"}, relPaths(files))
		for _, f := range files {
			assert.True(t, filepath.IsAbs(f.Path), "path %q should be absolute", f.Path)
		}
	})

	t.Run("ignored directory is pruned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, "vendor/lib/file.js", "src/main.js")

		files, err := New(mustFilter(t, "vendor/**"), WithBaseDir(dir)).Walk(context.Background(), ".")
		require.NoError(t, err)
		assert.Equal(t, []string{"src/main.js"}, relPaths(files))
	})

	t.Run("ignored file is skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, ".todolintrc.json", "app.js", "app.min.js")

		files, err := New(mustFilter(t, ".todolintrc.json", "*.min.js"), WithBaseDir(dir)).Walk(context.Background(), ".")
		require.NoError(t, err)
		assert.Equal(t, []string{"app.js"}, relPaths(files))
	})

	t.Run("relative paths are rooted at base dir not scan root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, "src/pkg/gen/out.js", "src/pkg/in.js")

		// The pattern is written from the project root, the scan starts deeper.
		files, err := New(mustFilter(t, "src/pkg/gen/**"), WithBaseDir(dir)).Walk(context.Background(), "src/pkg")
		require.NoError(t, err)
		assert.Equal(t, []string{"src/pkg/in.js"}, relPaths(files))
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		files, err := New(nil, WithBaseDir(t.TempDir())).Walk(context.Background(), ".")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing root returns error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), "does-not-exist")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, files)
	})

	t.Run("repeated walks are identical", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, "z/1.js", "z/2.js", "y/3.js", "x/w/v/4.js", "5.js")
		w := New(nil, WithBaseDir(dir))

		first, err := w.Walk(context.Background(), ".")
		require.NoError(t, err)
		second, err := w.Walk(context.Background(), ".")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("absolute root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		makeTree(t, dir, "lib/a.js")

		files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), filepath.Join(dir, "lib"))
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/a.js"}, relPaths(files))
	})
}

func TestWalkPartialFailure(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	makeTree(t, dir, "ok/a.js", "locked/b.js", "c.js")
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), ".")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)

	got := relPaths(files)
	sort.Strings(got)
	assert.Equal(t, []string{"c.js", "ok/a.js"}, got)
}

func TestWalkBrokenSymlink(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	makeTree(t, dir, "a.js")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling")))

	files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), ".")
	require.Error(t, err, "a failed stat is reported")
	assert.Contains(t, err.Error(), "dangling")
	assert.Equal(t, []string{"a.js"}, relPaths(files))
}

func TestWalkSymlinkCycle(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	makeTree(t, dir, "a/b.js")
	require.NoError(t, os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "a", "loop")))

	files, err := New(nil, WithBaseDir(dir)).Walk(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b.js"}, relPaths(files))
}

func TestWalkCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, "a.js")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, WithBaseDir(dir)).Walk(ctx, ".")
	assert.ErrorIs(t, err, context.Canceled)
}
