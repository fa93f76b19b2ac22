package main

import (
	"path/filepath"
	"strings"

	"github.com/smartmita/Code-Aggregation/internal/config"
)

// applySettings overlays a remembered settings document onto the loaded
// configuration. Only set fields are taken; flags are applied afterwards
// and still win.
func applySettings(s *config.Settings, cfg *config.Config) {
	if s == nil {
		return
	}
	if len(s.Extensions) > 0 {
		cfg.IncludeExtensions = append([]string(nil), s.Extensions...)
	}
	if len(s.IgnoreItems) > 0 {
		cfg.IgnoreItems = append([]string(nil), s.IgnoreItems...)
	}
	if s.OutputFilename != "" {
		name := s.OutputFilename
		cfg.OutputName = &name
	}
	if s.OutputFormat != "" {
		format := s.OutputFormat
		cfg.OutputFormat = &format
	}
}

// rememberRun builds the settings document describing a completed run, so
// the next invocation can start from the same parameters.
func rememberRun(targetDir, outputPath string, extensions, ignoreItems []string, format string) *config.Settings {
	base := filepath.Base(outputPath)
	return &config.Settings{
		Directory:       targetDir,
		OutputDirectory: filepath.Dir(outputPath),
		Extensions:      extensions,
		IgnoreItems:     ignoreItems,
		OutputFilename:  strings.TrimSuffix(base, filepath.Ext(base)),
		OutputFormat:    format,
	}
}
