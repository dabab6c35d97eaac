package pipeline

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/codegraph-ir/codegraph/internal/config"
)

// ScanFilter narrows a candidate file list down to the paths the
// pipeline should actually process, mirroring the teacher's scanner
// include/exclude glob convention (`**/*.go`, `!**/vendor/**`). Empty
// Include matches everything; Exclude is applied after Include.
type ScanFilter struct {
	Include []string
	Exclude []string
}

// NewScanFilterWithGitignore builds a ScanFilter whose Exclude list is
// seeded from rootPath's .gitignore (if any), on top of the caller's own
// include/exclude globs. A missing .gitignore is not an error.
func NewScanFilterWithGitignore(rootPath string, include, exclude []string) (ScanFilter, error) {
	parser := config.NewGitignoreParser()
	if err := parser.LoadGitignore(rootPath); err != nil {
		return ScanFilter{}, err
	}

	merged := append(append([]string{}, exclude...), parser.GetExclusionPatterns()...)
	return ScanFilter{Include: include, Exclude: merged}, nil
}

// Apply filters files against f's include/exclude glob patterns. A
// file matching no Include pattern is dropped when Include is
// non-empty; a file matching any Exclude pattern is always dropped.
func (f ScanFilter) Apply(files []string) []string {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return files
	}

	out := make([]string, 0, len(files))
	for _, path := range files {
		if len(f.Include) > 0 && !matchesAny(f.Include, path) {
			continue
		}
		if matchesAny(f.Exclude, path) {
			continue
		}
		out = append(out, path)
	}
	return out
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
