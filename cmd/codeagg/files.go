package main

import (
	"log/slog"
	"os"
	"path/filepath"
)

// mergeManualFiles appends explicitly requested files to the discovered
// list. Manual files bypass ignore rules and the extension filter; paths
// already discovered are skipped, as are paths that cannot be stat'ed or
// that point at directories.
func mergeManualFiles(found []string, manual []string) []string {
	if len(manual) == 0 {
		return found
	}

	seen := make(map[string]struct{}, len(found))
	for _, p := range found {
		seen[p] = struct{}{}
	}

	slog.Debug("Processing manually specified files.", "count", len(manual))
	for _, raw := range manual {
		absPath, err := filepath.Abs(raw)
		if err != nil {
			slog.Warn("Could not resolve manual file path, skipping.", "path", raw, "error", err)
			continue
		}
		absPath = filepath.Clean(absPath)

		if _, dup := seen[absPath]; dup {
			slog.Debug("Skipping duplicate manual file.", "path", absPath)
			continue
		}

		info, err := os.Stat(absPath)
		if err != nil {
			logMsg := "Cannot stat manual file, skipping."
			if os.IsNotExist(err) {
				logMsg = "Manual file not found, skipping."
			}
			slog.Warn(logMsg, "path", absPath, "error", err)
			continue
		}
		if info.IsDir() {
			slog.Warn("Manual path points to a directory, skipping.", "path", absPath)
			continue
		}

		found = append(found, absPath)
		seen[absPath] = struct{}{}
	}
	return found
}
