// Package edition locates a publication date's edition directory across the
// configured stores and lists the page files inside it.
package edition

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/harrison/msutils/internal/page"
)

// Logger receives the diagnostics produced while scanning. Implementations
// live in internal/logger.
type Logger interface {
	// LogSkippedFile reports a candidate file whose name could not be parsed.
	LogSkippedFile(path string, err error)
	// LogMisfiledPages reports pages dropped because their date differs from
	// the requested edition date.
	LogMisfiledPages(date time.Time, pages []page.Page)
}

type nopLogger struct{}

func (nopLogger) LogSkippedFile(string, error)            {}
func (nopLogger) LogMisfiledPages(time.Time, []page.Page) {}

// Resolver finds edition directories and their page files.
type Resolver struct {
	registry *Registry
	logger   Logger
}

// NewResolver creates a Resolver over registry. A nil logger discards
// diagnostics.
func NewResolver(registry *Registry, logger Logger) *Resolver {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Resolver{registry: registry, logger: logger}
}

// Registry returns the store registry the resolver searches.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// EditionDir returns the absolute path of date's edition directory.
//
// Reachable stores are tried in configuration order and the first one with
// a directory for date wins. It fails with ErrNoEditionStores when no store
// root exists and with *NoEditionError when none has the date.
func (r *Resolver) EditionDir(date time.Time) (string, error) {
	stores, err := r.registry.FetchStores()
	if err != nil {
		return "", err
	}

	for _, s := range stores {
		candidate := s.EditionPath(date)
		ok, err := isDir(candidate)
		if err != nil {
			return "", fmt.Errorf("check edition directory %s: %w", candidate, err)
		}
		if !ok {
			continue
		}
		return resolvePath(candidate)
	}

	return "", &NoEditionError{Date: civil(date)}
}

// PressPDFsDir returns the pre-press PDF folder for date's edition. The
// folder itself may not exist yet.
func (r *Resolver) PressPDFsDir(date time.Time) (string, error) {
	dir, err := r.EditionDir(date)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PressPDFsName(date)), nil
}

// WebPDFsDir returns the e-edition PDF folder for date's edition. The
// folder itself may not exist yet.
func (r *Resolver) WebPDFsDir(date time.Time) (string, error) {
	dir, err := r.EditionDir(date)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, WebPDFsName(date)), nil
}

func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
