// SPDX-License-Identifier: MIT
// Package store: sentinel error set.

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no archive is stored under the name.
	ErrNotFound = errors.New("store: archive not found")

	// ErrInvalidName indicates an empty, absolute, hidden or escaping name.
	ErrInvalidName = errors.New("store: invalid archive name")

	// ErrLocked indicates that the write lock could not be taken in time.
	ErrLocked = errors.New("store: lock not acquired")
)

// Operation tags.
const (
	opPut    = "Put"
	opGet    = "Get"
	opDelete = "Delete"
	opList   = "List"
	opOpen   = "Open"
	opSave   = "Save"
	opLoad   = "Load"
)

// storeErrorf wraps err with an operation tag. Call only with err != nil.
func storeErrorf(tag string, err error) error {
	return fmt.Errorf("store: %s: %w", tag, err)
}
