// SPDX-License-Identifier: MIT
// Package codec: sentinel error set.

package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates an unsupported payload format or a document
	// kind that does not match the requested value.
	ErrUnknownFormat = errors.New("codec: unknown format")

	// ErrUnknownCompression indicates an unsupported compression byte.
	ErrUnknownCompression = errors.New("codec: unknown compression")

	// ErrCorrupt indicates a truncated frame, a bad magic number, a size
	// mismatch or a record that violates the model invariants.
	ErrCorrupt = errors.New("codec: corrupt archive")

	// ErrUnsupportedVersion indicates a document written by a newer schema.
	ErrUnsupportedVersion = errors.New("codec: unsupported document version")
)

// Operation tags.
const (
	opMarshal   = "Marshal"
	opUnmarshal = "Unmarshal"
	opModel     = "Model"
	opKdotp     = "Kdotp"
	opSymmetry  = "Symmetries"
	opKpoints   = "Kpoints"
)

// codecErrorf wraps err with an operation tag. Call only with err != nil.
func codecErrorf(tag string, err error) error {
	return fmt.Errorf("codec: %s: %w", tag, err)
}
