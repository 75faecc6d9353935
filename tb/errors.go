// SPDX-License-Identifier: MIT
// Package tb: sentinel error set.
// Matrix-level causes (cmatrix.ErrNotHermitian, cmatrix.ErrEigenFailed) and
// symmetry-level causes (symmetry.ErrLatticeMapping, symmetry.ErrGroupClosure)
// are wrapped, never replaced, so errors.Is matches across layers.

package tb

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates inconsistent size/dim between positions,
	// unit cell, hopping matrices, k-points, operations or models.
	ErrDimensionMismatch = errors.New("tb: dimension mismatch")

	// ErrInvalidSize indicates a non-positive orbital count or dimension.
	ErrInvalidSize = errors.New("tb: invalid size or dimension")

	// ErrOrbitalIndex indicates an orbital index outside [0, size).
	ErrOrbitalIndex = errors.New("tb: orbital index out of range")

	// ErrNilModel indicates that a nil *Model was passed.
	ErrNilModel = errors.New("tb: nil model")

	// ErrEmptyModel indicates an empty model list.
	ErrEmptyModel = errors.New("tb: no models given")

	// ErrNoUnitCell indicates an operation that needs the unit cell on a model without one.
	ErrNoUnitCell = errors.New("tb: model has no unit cell")

	// ErrIncompatible indicates models that cannot be combined (different
	// positions, unit cell or occupation).
	ErrIncompatible = errors.New("tb: incompatible models")

	// ErrNotHermitian indicates hopping input violating hop[-R] == hop[R]^H.
	ErrNotHermitian = errors.New("tb: hoppings do not describe a hermitian hamiltonian")

	// ErrInvalidConvention indicates a Convention value other than 0 or 1.
	ErrInvalidConvention = errors.New("tb: invalid convention")

	// ErrInvalidCell indicates a unit cell change that is not an integral,
	// volume-preserving, right-handed basis change, or a fold target that does
	// not tile the model's cell.
	ErrInvalidCell = errors.New("tb: invalid unit cell change")

	// ErrOrbitalMatch indicates orbitals that FoldModel cannot map onto the
	// orbitals of the folded cell.
	ErrOrbitalMatch = errors.New("tb: orbitals do not match the folded cell")

	// ErrNaNInf signals a non-finite position, unit-cell entry or k component.
	ErrNaNInf = errors.New("tb: NaN or Inf encountered")
)

// Operation tags.
const (
	opBuild       = "Build"
	opAddHop      = "AddHop"
	opAddOnSite   = "AddOnSite"
	opFromHop     = "FromHoppings"
	opHamilton    = "Hamilton"
	opEigenval    = "Eigenval"
	opSymmetrize  = "Symmetrize"
	opSlice       = "SliceOrbitals"
	opAdd         = "Add"
	opScale       = "Scale"
	opLongRange   = "RemoveLongRangeHop"
	opSupercell   = "Supercell"
	opJoin        = "JoinModels"
	opSetBacking  = "SetBacking"
	opChangeCell  = "ChangeUnitCell"
	opFold        = "FoldModel"
	opNewInternal = "newModel"
)

// tbErrorf wraps err with an operation tag. Call only with err != nil.
func tbErrorf(tag string, err error) error {
	return fmt.Errorf("tb: %s: %w", tag, err)
}
