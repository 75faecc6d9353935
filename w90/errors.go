// SPDX-License-Identifier: MIT
// Package w90: sentinel error set.

package w90

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates malformed hr.dat input; the message carries the line.
	ErrParse = errors.New("w90: malformed hr file")

	// ErrDimensionMismatch indicates a model that is not three-dimensional.
	ErrDimensionMismatch = errors.New("w90: hr format needs dim 3")

	// ErrEmptyModel indicates a model without hopping terms.
	ErrEmptyModel = errors.New("w90: model has no hopping terms")
)

// Operation tags.
const (
	opRead  = "ReadHR"
	opWrite = "WriteHR"
)

// w90Errorf wraps err with an operation tag. Call only with err != nil.
func w90Errorf(tag string, err error) error {
	return fmt.Errorf("w90: %s: %w", tag, err)
}

// lineErrorf reports a parse error at a 1-based line number.
func lineErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrParse)
}
