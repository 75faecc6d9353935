// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// Default settings of the local backend.
const (
	// DefaultLockTimeout bounds the wait for the write lock.
	DefaultLockTimeout = 10 * time.Second

	// lockRetry is the delay between lock attempts.
	lockRetry = 20 * time.Millisecond

	lockName   = ".tbmodels.lock"
	tempPrefix = ".tmp-"
)

// Local stores archives as files below a root directory.
type Local struct {
	root        string
	lockTimeout time.Duration

	// gate queues writers of this process ahead of the file lock, so they
	// do not poll it against each other.
	gate chan struct{}
}

// NewLocal opens (creating if needed) a local store rooted at root.
// lockTimeout <= 0 selects DefaultLockTimeout.
func NewLocal(root string, lockTimeout time.Duration) (*Local, error) {
	if root == "" {
		return nil, storeErrorf(opOpen, fmt.Errorf("empty root: %w", ErrInvalidName))
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, storeErrorf(opOpen, err)
	}
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Local{root: root, lockTimeout: lockTimeout, gate: make(chan struct{}, 1)}, nil
}

// Root returns the store directory.
func (s *Local) Root() string { return s.root }

func (s *Local) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// lock takes the inter-process write lock, giving up after lockTimeout or
// when ctx ends. The returned func releases it.
func (s *Local) lock(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	select {
	case s.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLocked, ctx.Err())
	}

	l := flock.New(filepath.Join(s.root, lockName))
	ok, err := l.TryLockContext(ctx, lockRetry)
	if err != nil || !ok {
		_ = l.Close()
		<-s.gate
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLocked, err)
		}

		return nil, ErrLocked
	}

	return func() {
		_ = l.Unlock()
		<-s.gate
	}, nil
}

// Put writes data to a temp file next to the target and renames it into
// place while holding the lock.
func (s *Local) Put(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return storeErrorf(opPut, err)
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return storeErrorf(opPut, err)
	}
	defer unlock()

	target := s.path(name)
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return storeErrorf(opPut, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), tempPrefix+"*")
	if err != nil {
		return storeErrorf(opPut, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), target)
	}
	if err != nil {
		return storeErrorf(opPut, err)
	}

	return nil
}

// Get reads the archive stored under name.
func (s *Local) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, storeErrorf(opGet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, storeErrorf(opGet, err)
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storeErrorf(opGet, fmt.Errorf("%s: %w", name, ErrNotFound))
	}
	if err != nil {
		return nil, storeErrorf(opGet, err)
	}

	return data, nil
}

// Delete removes the archive stored under name.
func (s *Local) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return storeErrorf(opDelete, err)
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return storeErrorf(opDelete, err)
	}
	defer unlock()

	if err = os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storeErrorf(opDelete, err)
	}

	return nil
}

// List walks the root and returns archive names with the given prefix.
// Lock and temp files are skipped.
func (s *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if p == s.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		return nil, storeErrorf(opList, err)
	}
	sort.Strings(names)

	return names, nil
}
