// Package discover enumerates PDF files under a root directory.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Extension matched by the scan, compared case-insensitively.
const Extension = ".pdf"

// Scan walks root recursively and returns every PDF file with its size.
// The result carries no ordering guarantee; callers apply the ordering
// policy themselves. A root that does not exist or is not a directory is
// an error; an empty result is not.
func Scan(root string) ([]types.PrintableFile, error) {
	expanded, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if !fsutil.PathExists(abs) {
		return nil, fmt.Errorf("directory not found: %s", root)
	}
	if !fsutil.IsDir(abs) {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	var files []types.PrintableFile
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), Extension) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, types.PrintableFile{
			Path:      path,
			Dir:       filepath.Dir(path),
			Name:      d.Name(),
			SizeBytes: uint64(info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", abs, err)
	}
	return files, nil
}

// TotalSize sums the sizes of the given files.
func TotalSize(files []types.PrintableFile) uint64 {
	var total uint64
	for _, f := range files {
		total += f.SizeBytes
	}
	return total
}
