// Command bumpversion increments the patch component of the Version
// constant in cmd/codeagg/main.go. Run from the repository root before
// tagging a release.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var versionLine = regexp.MustCompile(`^(const Version\s*=\s*")(\d+\.\d+\.)(\d+)(".*)$`)

func bumpPatch(versionFile string) bool {
	content, err := os.ReadFile(versionFile)
	if err != nil {
		fmt.Printf("Error: File '%s' not found.\n", versionFile)
		return false
	}
	lines := strings.Split(string(content), "\n")

	updated := false
	for i, line := range lines {
		matches := versionLine.FindStringSubmatch(line)
		if len(matches) != 5 {
			continue
		}
		patch, err := strconv.Atoi(matches[3])
		if err != nil {
			fmt.Println("Error: Invalid version format.")
			return false
		}
		lines[i] = fmt.Sprintf("%s%s%d%s", matches[1], matches[2], patch+1, matches[4])
		updated = true
	}

	if !updated {
		fmt.Println("Error: Version constant not found.")
		return false
	}

	if err := os.WriteFile(versionFile, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		fmt.Printf("Error: Could not write to file '%s'.\n", versionFile)
		return false
	}

	fmt.Printf("Version updated in %s\n", versionFile)
	return true
}

func main() {
	versionFile := "cmd/codeagg/main.go"
	if len(os.Args) > 1 {
		versionFile = os.Args[1]
	}
	if !bumpPatch(versionFile) {
		os.Exit(1)
	}
}
