package edition

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harrison/msutils/internal/page"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures diagnostics for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	skipped  []string
	misfiled []page.Page
	dates    []time.Time
}

func (l *recordingLogger) LogSkippedFile(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped = append(l.skipped, filepath.Base(path))
}

func (l *recordingLogger) LogMisfiledPages(date time.Time, pages []page.Page) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dates = append(l.dates, date)
	l.misfiled = append(l.misfiled, pages...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// touch creates each relative path under root, with parent directories.
func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("page"), 0644))
	}
}

func mkdir(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
	return path
}

// realPath resolves symlinks in a temp path (macOS /var -> /private/var).
func realPath(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return p
}

func names(pages []page.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Name()
	}
	return out
}
