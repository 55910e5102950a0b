package edition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxProbes bounds concurrent stat calls against store roots.
const maxProbes = 8

// Store is a filesystem root that may contain edition directories, paired
// with the layout those directories follow.
type Store struct {
	Root   string
	Layout Layout
}

// EditionPath returns where date's edition would live in this store.
func (s Store) EditionPath(date time.Time) string {
	return s.Layout.Dir(s.Root, civil(date))
}

// String returns "root (layout)".
func (s Store) String() string {
	return fmt.Sprintf("%s (%s)", s.Root, s.Layout)
}

// StoreStatus is the result of probing one store root.
type StoreStatus struct {
	Store     Store
	Reachable bool
}

// Registry is the ordered list of known stores. Order matters: when the
// same edition exists in several stores the first one wins.
type Registry struct {
	stores []Store
}

// NewRegistry creates a registry over stores, in the given order.
func NewRegistry(stores ...Store) *Registry {
	return &Registry{stores: slices.Clone(stores)}
}

// Stores returns the configured stores in order.
func (r *Registry) Stores() []Store {
	return slices.Clone(r.stores)
}

// Probe checks every store root and reports which currently exist, in
// configuration order. Each call queries the filesystem afresh.
func (r *Registry) Probe() ([]StoreStatus, error) {
	statuses := make([]StoreStatus, len(r.stores))

	var g errgroup.Group
	g.SetLimit(maxProbes)
	for i, s := range r.stores {
		g.Go(func() error {
			ok, err := isDir(s.Root)
			if err != nil {
				return fmt.Errorf("probe store %s: %w", s.Root, err)
			}
			statuses[i] = StoreStatus{Store: s, Reachable: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// FetchStores returns the stores whose root currently exists, in
// configuration order. It fails with ErrNoEditionStores when none do.
func (r *Registry) FetchStores() ([]Store, error) {
	statuses, err := r.Probe()
	if err != nil {
		return nil, err
	}

	var reachable []Store
	for _, st := range statuses {
		if st.Reachable {
			reachable = append(reachable, st.Store)
		}
	}
	if len(reachable) == 0 {
		return nil, ErrNoEditionStores
	}
	return reachable, nil
}

// isDir reports whether path exists and is a directory. Absence is not an
// error; any other stat failure is returned as-is.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}
