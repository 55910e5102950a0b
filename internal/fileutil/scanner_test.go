package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   1_Front_040516.indd
	//   2_Home_040516.INDD
	//   notes.txt
	//   PDFs 040516/
	//     1_Front_040516.pdf
	//   Supplement/
	//     A1_Insert_040516.indd
	//     Old/
	//       A2_Insert_040516.indd
	//   .backup/
	//     1_Front_040516.indd
	//   Trash/
	//     3_Sport_040516.indd
	testFiles := []string{
		"1_Front_040516.indd",
		"2_Home_040516.INDD",
		"notes.txt",
		"PDFs 040516/1_Front_040516.pdf",
		"Supplement/A1_Insert_040516.indd",
		"Supplement/Old/A2_Insert_040516.indd",
		".backup/1_Front_040516.indd",
		"Trash/3_Sport_040516.indd",
	}

	for _, f := range testFiles {
		path := filepath.Join(tmpDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
	}{
		{
			name:          "flat scan, every file",
			opts:          ScanOptions{},
			wantFileNames: []string{"1_Front_040516.indd", "2_Home_040516.INDD", "notes.txt"},
		},
		{
			name: "recursive scan skips hidden directories",
			opts: ScanOptions{Recursive: true, SkipHidden: true},
			wantFileNames: []string{
				"1_Front_040516.indd", "2_Home_040516.INDD", "notes.txt",
				"1_Front_040516.pdf", "A1_Insert_040516.indd", "A2_Insert_040516.indd",
				"3_Sport_040516.indd",
			},
		},
		{
			name: "recursive indd enters hidden directories",
			opts: ScanOptions{Extensions: []string{".indd"}, Recursive: true},
			wantFileNames: []string{
				"1_Front_040516.indd", "1_Front_040516.indd", "2_Home_040516.INDD",
				"A1_Insert_040516.indd", "A2_Insert_040516.indd", "3_Sport_040516.indd",
			},
		},
		{
			name:          "extension without dot, case-insensitive",
			opts:          ScanOptions{Extensions: []string{"INDD"}},
			wantFileNames: []string{"1_Front_040516.indd", "2_Home_040516.INDD"},
		},
		{
			name: "exclude directory",
			opts: ScanOptions{Extensions: []string{".indd"}, Recursive: true, ExcludeDirs: []string{"Trash"}, SkipHidden: true},
			wantFileNames: []string{
				"1_Front_040516.indd", "2_Home_040516.INDD",
				"A1_Insert_040516.indd", "A2_Insert_040516.indd",
			},
		},
		{
			name:          "no matching extension",
			opts:          ScanOptions{Extensions: []string{".pdf"}},
			wantFileNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if len(result.Errors) != 0 {
				t.Errorf("unexpected scan errors: %v", result.Errors)
			}

			got := make([]string, len(result.Files))
			for i, f := range result.Files {
				got[i] = filepath.Base(f)
			}
			sort.Strings(got)
			want := append([]string(nil), tt.wantFileNames...)
			sort.Strings(want)

			if len(got) != len(want) {
				t.Fatalf("got %d files %v, want %d %v", len(got), got, len(want), want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("file[%d] = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestScanDirectory_AbsoluteSortedPaths(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "c.pdf"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	result, err := ScanDirectory(tmpDir, ScanOptions{Extensions: []string{".pdf"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if !sort.StringsAreSorted(result.Files) {
		t.Errorf("files not sorted: %v", result.Files)
	}
	for _, f := range result.Files {
		if !filepath.IsAbs(f) {
			t.Errorf("path %q is not absolute", f)
		}
	}
}

func TestScanDirectory_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "PDFs 040516")

	if _, err := ScanDirectory(missing, ScanOptions{}); err == nil {
		t.Error("expected error for missing directory")
	}

	result, err := ScanDirectory(missing, ScanOptions{MissingOK: true})
	if err != nil {
		t.Fatalf("MissingOK scan returned error: %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no files, got %v", result.Files)
	}
	if result.Err() != nil {
		t.Errorf("expected nil Err(), got %v", result.Err())
	}
}

func TestScanDirectory_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "1_Front_040516.indd")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ScanDirectory(file, ScanOptions{MissingOK: true}); err == nil {
		t.Error("expected error when scanning a file")
	}
}

func TestScanDirectory_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced")
	}

	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "Locked")
	if err := os.MkdirAll(locked, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "1_Front_040516.indd"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result, err := ScanDirectory(tmpDir, ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected 1 file, got %v", result.Files)
	}
	if result.Err() == nil {
		t.Error("expected the unreadable directory to be reported")
	}
}
