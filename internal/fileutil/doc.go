// Package fileutil provides the directory listing used to discover page files.
//
// ScanDirectory walks a directory either recursively (InDesign files, where
// supplements and inserts are filed in subfolders) or flatly (PDF output
// folders), keeping only files with the requested extensions.
//
// # Behaviour
//
//   - Extension matching is case-insensitive; "pdf" and ".PDF" are equivalent.
//   - ExcludeDirs are never entered. Hidden directories are skipped only
//     with SkipHidden.
//   - Paths are returned absolute and sorted, so output is deterministic for
//     a given directory state.
//   - Unreadable entries below the root are collected in ScanResult.Errors
//     and the walk continues; failing to read the root itself is an error.
//   - With MissingOK a nonexistent root yields an empty result, for output
//     folders that are only created when first populated.
//
// Example:
//
//	result, err := fileutil.ScanDirectory(editionDir, fileutil.ScanOptions{
//	    Extensions: []string{".indd"},
//	    Recursive:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
package fileutil
