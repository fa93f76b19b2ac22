// Package aggregate writes the combined output artifact: a header, the
// rendered file tree, then every discovered file's content in order.
package aggregate

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/smartmita/Code-Aggregation/internal/report"
	"github.com/smartmita/Code-Aggregation/internal/tree"
)

// Format selects how file contents are embedded in the artifact.
type Format string

const (
	// Markdown fences each file in a code block tagged by extension.
	Markdown Format = ".md"
	// PlainText writes contents verbatim with a blank-line separator.
	PlainText Format = ".txt"
)

var (
	heavyRule = strings.Repeat("=", 80)
	lightRule = strings.Repeat("-", 80)
)

// Run aggregates files under rootDir into outputPath. The output directory
// is created if missing. A file that cannot be read gets an inline error
// marker in the artifact and the run continues; a failure to write the
// artifact itself is fatal and leaves whatever was already written on disk.
// There is no resumability: a failed run is restarted from scratch.
func Run(rootDir string, files []string, outputPath string, format Format, rep report.Reporter) error {
	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(outputDir, 0o755); mkErr != nil {
			rep.Logf("创建输出目录失败: %s - %v", outputDir, mkErr)
			return fmt.Errorf("create output directory %q: %w", outputDir, mkErr)
		}
		rep.Logf("自动创建输出目录: %s", outputDir)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		rep.Logf("错误：无法写入文件 %s。-> %v", outputPath, err)
		return fmt.Errorf("create output file %q: %w", outputPath, err)
	}
	rep.Logf("正在创建并写入文件: %s", outputPath)

	w := bufio.NewWriter(out)
	fail := func(cause error) error {
		_ = out.Close()
		rep.Logf("错误：无法写入文件 %s。-> %v", outputPath, cause)
		return fmt.Errorf("write output file %q: %w", outputPath, cause)
	}

	totalFiles := len(files)
	fmt.Fprintf(w, "%s\n根目录: %s\n共 %d 个文件\n%s\n\n", heavyRule, rootDir, totalFiles, heavyRule)

	if totalFiles > 0 {
		rep.Logf("正在生成文件结构树...")
		rendered := tree.Render(rootDir, files)
		rep.Logf("文件结构树生成完毕。")
		fmt.Fprintf(w, "文件结构树:\n%s\n\n%s\n\n", rendered, heavyRule)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}

	for i, filePath := range files {
		rep.Logf("正在写入 (%d/%d): %s", i+1, totalFiles, filePath)
		rep.Progress(float64(i+1) / float64(totalFiles))

		fmt.Fprintf(w, "%s\n文件路径: %s\n%s\n\n", lightRule, filePath, lightRule)

		content, readErr := os.ReadFile(filePath)
		if readErr != nil {
			// Partial-failure policy: one unreadable file must not void
			// the whole artifact.
			slog.Warn("Failed to read input file, writing inline marker.", "path", filePath, "error", readErr)
			marker := fmt.Sprintf("!!! 读取文件时出错: %s -> %v !!!\n\n", filePath, readErr)
			rep.Logf("%s", strings.TrimRight(marker, "\n"))
			w.WriteString(marker)
		} else {
			text := decodeLossy(content)
			if format == Markdown {
				lang := strings.TrimPrefix(filepath.Ext(filePath), ".")
				fmt.Fprintf(w, "```%s\n%s\n```\n\n", lang, text)
			} else {
				fmt.Fprintf(w, "%s\n\n", text)
			}
		}

		if err := w.Flush(); err != nil {
			return fail(err)
		}
	}

	rep.Logf("所有代码内容已成功聚合到 '%s' 文件中。", filepath.Base(outputPath))

	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := out.Close(); err != nil {
		rep.Logf("错误：无法写入文件 %s。-> %v", outputPath, err)
		return fmt.Errorf("close output file %q: %w", outputPath, err)
	}
	return nil
}

// decodeLossy interprets content as UTF-8, dropping undecodable bytes. A
// decode problem never aborts aggregation.
func decodeLossy(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "")
}
