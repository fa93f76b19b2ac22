// Package config loads the tool configuration from a TOML file and
// persists front-end settings as a JSON document.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the user-tunable defaults. Pointer fields distinguish
// "unset" from an explicit zero value.
type Config struct {
	IncludeExtensions []string `toml:"include_extensions"`
	IgnoreItems       []string `toml:"ignore_items"`
	OutputName        *string  `toml:"output_name"`
	OutputFormat      *string  `toml:"output_format"`
	AutoRename        *bool    `toml:"auto_rename"`
	UseGitignore      *bool    `toml:"use_gitignore"`
}

var defaultConfig = Config{
	IncludeExtensions: []string{".py"},
	IgnoreItems: []string{
		"venv", "__pycache__", ".git", ".vscode",
		"node_modules", "dist", "build", ".pytest_cache",
	},
	OutputName:   ptr("code_summary"),
	OutputFormat: ptr(".md"),
	AutoRename:   func(b bool) *bool { return &b }(true),
	UseGitignore: func(b bool) *bool { return &b }(false),
}

func ptr(s string) *string { return &s }

// clone deep-copies a Config. The pointer fields and slice headers must
// not alias their source: toml.Decode writes through pre-set pointers and
// into existing backing arrays, which would corrupt the package-level
// defaults on the first Load.
func clone(c Config) Config {
	out := Config{
		IncludeExtensions: append([]string(nil), c.IncludeExtensions...),
		IgnoreItems:       append([]string(nil), c.IgnoreItems...),
	}
	if c.OutputName != nil {
		v := *c.OutputName
		out.OutputName = &v
	}
	if c.OutputFormat != nil {
		v := *c.OutputFormat
		out.OutputFormat = &v
	}
	if c.AutoRename != nil {
		v := *c.AutoRename
		out.AutoRename = &v
	}
	if c.UseGitignore != nil {
		v := *c.UseGitignore
		out.UseGitignore = &v
	}
	return out
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return clone(defaultConfig)
}

// Load reads the configuration from customPath if given, otherwise from
// ~/.config/codeagg/config.toml. A missing default file is not an error; a
// missing custom file is. On any error the built-in defaults are returned
// alongside it so the caller can continue.
func Load(customPath string) (Config, error) {
	cfg := clone(defaultConfig)
	configFile := ""
	isCustomPath := customPath != ""

	if isCustomPath {
		abs, err := filepath.Abs(customPath)
		if err != nil {
			slog.Error("Could not determine absolute path for custom config file.", "path", customPath, "error", err)
			return Default(), fmt.Errorf("invalid custom config path %q: %w", customPath, err)
		}
		configFile = abs
		slog.Debug("Attempting to load configuration from custom path.", "path", configFile)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("Could not determine user home directory. Using default settings only.", "error", err)
			return cfg, nil
		}
		configFile = filepath.Join(homeDir, ".config", "codeagg", "config.toml")
		slog.Debug("Attempting to load configuration from default path.", "path", configFile)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if isCustomPath {
				slog.Error("Specified configuration file not found.", "path", configFile)
				return Default(), fmt.Errorf("specified configuration file %q not found", configFile)
			}
			slog.Info("No default config file found, using default settings.", "path", configFile)
			return cfg, nil
		}
		slog.Error("Error reading config file.", "path", configFile, "error", err)
		return Default(), fmt.Errorf("read config file %q: %w", configFile, err)
	}

	if len(content) == 0 {
		slog.Info("Configuration file is empty, using default settings.", "path", configFile)
		return cfg, nil
	}

	slog.Info("Loading configuration.", "path", configFile)
	loadedCfg := clone(defaultConfig)
	meta, err := toml.Decode(string(content), &loadedCfg)
	if err != nil {
		slog.Error("Error decoding TOML config file, using default settings.", "path", configFile, "error", err)
		return Default(), fmt.Errorf("decode TOML from %q: %w", configFile, err)
	}
	if len(meta.Undecoded()) > 0 {
		slog.Warn("Unrecognized keys found in config file.", "path", configFile, "keys", meta.Undecoded())
	}

	cfg = loadedCfg

	// Backfill pointer fields left nil by the decode.
	if cfg.OutputName == nil {
		cfg.OutputName = ptr(*defaultConfig.OutputName)
	}
	if cfg.OutputFormat == nil {
		cfg.OutputFormat = ptr(*defaultConfig.OutputFormat)
	}
	if cfg.AutoRename == nil {
		v := *defaultConfig.AutoRename
		cfg.AutoRename = &v
	}
	if cfg.UseGitignore == nil {
		v := *defaultConfig.UseGitignore
		cfg.UseGitignore = &v
	}

	slog.Debug("Configuration loaded successfully.",
		"source", configFile,
		"include_extensions", cfg.IncludeExtensions,
		"ignore_items", cfg.IgnoreItems,
		"output_name", *cfg.OutputName,
		"output_format", *cfg.OutputFormat,
		"auto_rename", *cfg.AutoRename,
		"use_gitignore", *cfg.UseGitignore,
	)

	return cfg, nil
}
