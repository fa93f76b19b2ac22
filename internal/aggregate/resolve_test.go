package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmita/Code-Aggregation/internal/report"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResolveOutputPathNoCollision(t *testing.T) {
	dir := t.TempDir()
	rec := &report.Recorder{}

	got := ResolveOutputPath(dir, "summary", ".md", rec)

	assert.Equal(t, filepath.Join(dir, "summary.md"), got)
	assert.Empty(t, rec.Lines(), "no rename, no log lines")
}

func TestResolveOutputPathSingleCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "summary.md"))
	rec := &report.Recorder{}

	got := ResolveOutputPath(dir, "summary", ".md", rec)

	assert.Equal(t, filepath.Join(dir, "summary (1).md"), got)
	lines := rec.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "提示: 文件 'summary.md' 已存在。", lines[0])
	assert.Equal(t, "将自动重命名并保存为 -> 'summary (1).md'", lines[1])
}

func TestResolveOutputPathCountsPastExistingSuffixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "summary.md"))
	touch(t, filepath.Join(dir, "summary (1).md"))

	got := ResolveOutputPath(dir, "summary", ".md", report.Discard)

	assert.Equal(t, filepath.Join(dir, "summary (2).md"), got)
}

func TestResolveOutputPathReturnedPathDoesNotExist(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "out.txt"))

	got := ResolveOutputPath(dir, "out", ".txt", report.Discard)

	_, err := os.Stat(got)
	assert.True(t, os.IsNotExist(err))
}
