package aggregate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartmita/Code-Aggregation/internal/report"
)

// ResolveOutputPath returns dir/name+ext if nothing exists there, otherwise
// the first "name (n)ext" that is free, counting n up from 1. The check is
// check-then-act without locking: a concurrent external writer creating the
// same path between resolution and use is an accepted race. A stat error
// other than not-exist counts the path as free; the eventual open reports
// the real problem.
func ResolveOutputPath(dir, name, ext string, rep report.Reporter) string {
	basePath := filepath.Join(dir, name+ext)
	if _, err := os.Stat(basePath); err != nil {
		return basePath
	}

	originalName := name + ext
	for counter := 1; ; counter++ {
		candidateName := fmt.Sprintf("%s (%d)%s", name, counter, ext)
		candidatePath := filepath.Join(dir, candidateName)
		if _, err := os.Stat(candidatePath); err != nil {
			rep.Logf("提示: 文件 '%s' 已存在。", originalName)
			rep.Logf("将自动重命名并保存为 -> '%s'", candidateName)
			return candidatePath
		}
	}
}
