// SPDX-License-Identifier: MIT

// Package store persists framed archives (see package codec) under
// slash-separated names.
//
// Two backends share the Store interface:
//   - Local: a directory tree; writers serialize on a gofrs/flock lock file
//     and publish through temp file + rename, so readers never see a torn
//     archive.
//   - Minio: a bucket of a MinIO or other S3-compatible server.
//
// SaveModel / LoadModel (and the K·p variants) combine a Store with the
// codec so callers deal in *tb.Model values.
package store

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/katalvlaran/tbmodels/codec"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/tb"
)

// Store is a flat namespace of byte archives.
type Store interface {
	// Put stores data under name, replacing any previous archive.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the archive stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes name. Deleting a missing archive is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateName rejects names that are empty, absolute, not in clean form,
// escape the root, or start with a dot (reserved for lock and temp files).
func ValidateName(name string) error {
	switch {
	case name == "", strings.HasPrefix(name, "/"), path.Clean(name) != name:
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
	}

	return nil
}

// SaveModel encodes m with opts and stores it under name.
func SaveModel(ctx context.Context, s Store, name string, m *tb.Model, opts ...codec.Option) error {
	data, err := codec.EncodeModel(m, opts...)
	if err != nil {
		return storeErrorf(opSave, err)
	}
	if err = s.Put(ctx, name, data); err != nil {
		return storeErrorf(opSave, err)
	}

	return nil
}

// LoadModel reads and decodes the model stored under name.
func LoadModel(ctx context.Context, s Store, name string) (*tb.Model, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, storeErrorf(opLoad, err)
	}
	m, err := codec.DecodeModel(data)
	if err != nil {
		return nil, storeErrorf(opLoad, fmt.Errorf("%s: %w", name, err))
	}

	return m, nil
}

// SaveKdotp encodes a K·p model with opts and stores it under name.
func SaveKdotp(ctx context.Context, s Store, name string, m *kdotp.Model, opts ...codec.Option) error {
	data, err := codec.EncodeKdotp(m, opts...)
	if err != nil {
		return storeErrorf(opSave, err)
	}
	if err = s.Put(ctx, name, data); err != nil {
		return storeErrorf(opSave, err)
	}

	return nil
}

// LoadKdotp reads and decodes the K·p model stored under name.
func LoadKdotp(ctx context.Context, s Store, name string) (*kdotp.Model, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, storeErrorf(opLoad, err)
	}
	m, err := codec.DecodeKdotp(data)
	if err != nil {
		return nil, storeErrorf(opLoad, fmt.Errorf("%s: %w", name, err))
	}

	return m, nil
}
