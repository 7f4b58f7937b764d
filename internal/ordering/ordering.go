// Package ordering defines the deterministic print order over discovered
// files: directory path first, then filename. Case folding is an explicit
// policy choice, defaulted per platform, never inferred at compare time.
package ordering

import (
	"runtime"
	"sort"
	"strings"

	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Policy configures the total order.
type Policy struct {
	// CaseInsensitive folds both keys before comparing. True on platforms
	// whose filesystems are conventionally case-insensitive.
	CaseInsensitive bool
}

// DefaultPolicy returns the platform's conventional policy.
func DefaultPolicy() Policy {
	return Policy{CaseInsensitive: runtime.GOOS == "windows" || runtime.GOOS == "darwin"}
}

// Less reports whether a sorts before b under the policy.
func (p Policy) Less(a, b types.PrintableFile) bool {
	ad, bd := a.Dir, b.Dir
	an, bn := a.Name, b.Name
	if p.CaseInsensitive {
		ad, bd = strings.ToLower(ad), strings.ToLower(bd)
		an, bn = strings.ToLower(an), strings.ToLower(bn)
	}
	if ad != bd {
		return ad < bd
	}
	return an < bn
}

// Sort orders files in place. The sort is stable so that ties, which
// cannot occur for distinct paths on one filesystem, fall back to
// discovery order.
func (p Policy) Sort(files []types.PrintableFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return p.Less(files[i], files[j])
	})
}
