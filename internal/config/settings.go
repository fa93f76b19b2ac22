package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Settings is the JSON key/value document a front end persists between
// runs: the last-used scan parameters and output target. The core never
// reads this; it only ferries values a front end chose to remember. The
// codeagg CLI loads and updates one via its --settings flag.
type Settings struct {
	Directory       string   `json:"directory"`
	OutputDirectory string   `json:"output_directory"`
	Extensions      []string `json:"extensions"`
	IgnoreItems     []string `json:"ignore_items"`
	OutputFilename  string   `json:"output_filename"`
	OutputFormat    string   `json:"output_format"`
}

// LoadSettings reads a settings document from path. A missing file yields
// (nil, nil): first run, nothing remembered yet.
func LoadSettings(path string) (*Settings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings file %q: %w", path, err)
	}
	var s Settings
	if err := json.Unmarshal(content, &s); err != nil {
		return nil, fmt.Errorf("decode settings file %q: %w", path, err)
	}
	return &s, nil
}

// Save writes the settings document to path, indented for hand editing.
func (s *Settings) Save(path string) error {
	content, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write settings file %q: %w", path, err)
	}
	return nil
}
