package aggregate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmita/Code-Aggregation/internal/report"
)

func writeInputs(t *testing.T, contents map[string]string) (string, []string) {
	t.Helper()
	root := t.TempDir()
	names := make([]string, 0, len(contents))
	for name := range contents {
		names = append(names, name)
	}
	// Deterministic list order for assertions.
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(contents[name]), 0o644))
		paths = append(paths, p)
	}
	return root, paths
}

func TestRunEmptyFileList(t *testing.T) {
	root := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, Run(root, nil, outPath, Markdown, report.Discard))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "根目录: "+root)
	assert.Contains(t, text, "共 0 个文件")
	assert.NotContains(t, text, "文件结构树:")
	assert.NotContains(t, text, "文件路径:")
}

func TestRunMarkdownArtifactLayout(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{
		"a.py":     "print('a')",
		"sub/b.go": "package b",
	})
	outPath := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, Run(root, paths, outPath, Markdown, report.Discard))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)

	rule := strings.Repeat("=", 80)
	assert.True(t, strings.HasPrefix(text, rule+"\n根目录: "+root+"\n共 2 个文件\n"+rule+"\n\n"))
	assert.Contains(t, text, "文件结构树:\n"+filepath.Base(root)+"\n")
	assert.Contains(t, text, "文件路径: "+paths[0])
	assert.Contains(t, text, "文件路径: "+paths[1])
	assert.Contains(t, text, "```py\nprint('a')\n```\n\n")
	assert.Contains(t, text, "```go\npackage b\n```\n\n")
}

func TestRunPlainTextOmitsFences(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{"a.py": "print('a')"})
	outPath := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, Run(root, paths, outPath, PlainText, report.Discard))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, "```")
	assert.Contains(t, text, "print('a')\n\n")
}

func TestRunMarkdownRoundTrip(t *testing.T) {
	contents := map[string]string{
		"first.py":    "def f():\n    return 1\n",
		"second.txt":  "plain text\nwith two lines",
		"nested/x.go": "package x\n",
	}
	root, paths := writeInputs(t, contents)
	outPath := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, Run(root, paths, outPath, Markdown, report.Discard))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)

	for _, p := range paths {
		original, rdErr := os.ReadFile(p)
		require.NoError(t, rdErr)

		marker := "文件路径: " + p + "\n"
		idx := strings.Index(text, marker)
		require.GreaterOrEqual(t, idx, 0, "missing marker for %s", p)
		section := text[idx:]
		open := strings.Index(section, "```")
		require.GreaterOrEqual(t, open, 0)
		section = section[open:]
		// Skip the fence line with its language tag.
		nl := strings.Index(section, "\n")
		require.GreaterOrEqual(t, nl, 0)
		section = section[nl+1:]
		closeIdx := strings.Index(section, "\n```\n")
		require.GreaterOrEqual(t, closeIdx, 0)
		assert.Equal(t, string(original), section[:closeIdx], "content mismatch for %s", p)
	}
}

func TestRunPartialFailureKeepsOtherFiles(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{
		"gone.py": "will vanish",
		"keep.py": "still here",
	})
	// Delete one file between discovery and aggregation.
	require.NoError(t, os.Remove(paths[0]))

	outPath := filepath.Join(t.TempDir(), "out.md")
	rec := &report.Recorder{}
	require.NoError(t, Run(root, paths, outPath, Markdown, rec))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "!!! 读取文件时出错: "+paths[0])
	assert.Contains(t, text, "still here")
	// Both files still get their path blocks.
	assert.Contains(t, text, "文件路径: "+paths[0])
	assert.Contains(t, text, "文件路径: "+paths[1])
}

func TestRunProgressFractions(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{
		"a.py": "a",
		"b.py": "b",
		"c.py": "c",
		"d.py": "d",
	})
	outPath := filepath.Join(t.TempDir(), "out.md")
	rec := &report.Recorder{}

	require.NoError(t, Run(root, paths, outPath, Markdown, rec))

	fractions := rec.Fractions()
	require.Len(t, fractions, 4)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1.0}, fractions)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1], "progress must be monotonic")
	}
}

func TestRunCreatesOutputDirectory(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{"a.py": "a"})
	outPath := filepath.Join(t.TempDir(), "deep", "nested", "out.md")
	rec := &report.Recorder{}

	require.NoError(t, Run(root, paths, outPath, Markdown, rec))

	_, err := os.Stat(outPath)
	assert.NoError(t, err)
	assert.Contains(t, rec.Lines(), "自动创建输出目录: "+filepath.Dir(outPath))
}

func TestRunUndecodableBytesAreDropped(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "bin.py")
	require.NoError(t, os.WriteFile(p, []byte{'o', 'k', 0xff, 0xfe, '!', '\n'}, 0o644))
	outPath := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, Run(root, []string{p}, outPath, PlainText, report.Discard))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok!\n")
	assert.NotContains(t, string(data), "\xff")
}

func TestRunFinalSummaryLogLine(t *testing.T) {
	root, paths := writeInputs(t, map[string]string{"a.py": "a"})
	outPath := filepath.Join(t.TempDir(), "result.md")
	rec := &report.Recorder{}

	require.NoError(t, Run(root, paths, outPath, Markdown, rec))

	lines := rec.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "所有代码内容已成功聚合到 'result.md' 文件中。", lines[len(lines)-1])
}

func TestRunFatalWhenOutputDirCannotBeCreated(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	root, paths := writeInputs(t, map[string]string{"a.py": "a"})

	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.MkdirAll(blocked, 0o555))
	outPath := filepath.Join(blocked, "sub", "out.md")

	err := Run(root, paths, outPath, Markdown, report.Discard)
	assert.Error(t, err)
}
