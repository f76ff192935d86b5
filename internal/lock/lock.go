// Package lock prevents two tsugix heal runs from patching the same
// working tree concurrently, using an on-disk lockfile under the target
// root directory.
package lock

import (
	"fmt"
	"path/filepath"

	"github.com/nightlyone/lockfile"
)

const fileName = ".tsugix.lock"

// Lock holds an exclusive, process-scoped lock on one root directory.
type Lock struct {
	lf lockfile.Lockfile
}

// Acquire takes an exclusive lock on root. It returns an error if another
// live process already holds it; a lock left behind by a dead process is
// detected and stolen by the underlying lockfile package.
func Acquire(root string) (*Lock, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving lock root: %w", err)
	}
	lf, err := lockfile.New(filepath.Join(abs, fileName))
	if err != nil {
		return nil, fmt.Errorf("creating lockfile: %w", err)
	}
	if err := lf.TryLock(); err != nil {
		return nil, fmt.Errorf("another tsugix run holds the lock: %w", err)
	}
	return &Lock{lf: lf}, nil
}

// Release removes the lock file.
func (l *Lock) Release() {
	_ = l.lf.Unlock()
}
