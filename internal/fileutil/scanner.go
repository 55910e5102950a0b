package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".indd", "pdf").
	// Matching is case-insensitive. Empty means every file.
	Extensions []string
	// Recursive descends into subdirectories; otherwise only the immediate
	// directory is listed
	Recursive bool
	// ExcludeDirs is a list of directory names to skip when recursing
	ExcludeDirs []string
	// SkipHidden does not enter directories whose names start with "."
	SkipHidden bool
	// MissingOK returns an empty result instead of an error when the
	// directory does not exist
	MissingOK bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files, sorted
	Files []string
	// Errors contains entries that could not be read during the walk
	Errors []error
}

// Err joins the collected walk errors, or returns nil when there were none.
func (r *ScanResult) Err() error {
	return errors.Join(r.Errors...)
}

// ScanDirectory lists the files under dir that match opts.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	info, err := os.Stat(dir)
	if err != nil {
		if opts.MissingOK && errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	extSet := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[strings.ToLower(ext)] = true
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive || slices.Contains(opts.ExcludeDirs, d.Name()) {
				return filepath.SkipDir
			}
			if opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if len(extSet) > 0 && !extSet[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}
		result.Files = append(result.Files, absPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	slices.Sort(result.Files)
	return result, nil
}
