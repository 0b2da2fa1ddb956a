package editengine

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a dry-run preview of replacing before with after,
// labeled with path, for display without writing anything to disk.
func UnifiedDiff(path, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
