// SPDX-License-Identifier: MIT

package tb

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/lattice"
)

// ChangeUnitCell returns the same physical model described in another unit
// cell, with its origin moved to offset.
//
// uc holds the new basis vectors as rows: in reduced coordinates of m's cell,
// or Cartesian when cartesian is set. A nil uc keeps the current cell. The new
// cell must be an integral, right-handed basis change of the old one with the
// same volume (ErrInvalidCell otherwise). offset is reduced or Cartesian
// likewise; nil means no shift. Cartesian input requires a unit cell.
//
// Implementation:
//   - Stage 1: express the new cell as B = uc·UC⁻¹ (Cartesian) or B = uc and
//     check B ∈ SL(d, ℤ).
//   - Stage 2: positions become (pos − offset)·B⁻¹ and every element (R, i, j)
//     moves to R·B⁻¹.
//   - Stage 3: positions are reduced into [0, 1) as on construction.
//
// Shifting by a lattice vector returns an equal model.
//
// Complexity: O(nnz·d² + size·d²).
func (m *Model) ChangeUnitCell(uc [][]float64, offset []float64, cartesian bool) (*Model, error) {
	if cartesian && m.uc == nil {
		return nil, tbErrorf(opChangeCell, ErrNoUnitCell)
	}
	d := m.dim
	basis := identity(d)
	if uc != nil {
		u, err := flatten(uc, d, d)
		if err != nil {
			return nil, tbErrorf(opChangeCell, fmt.Errorf("unit cell: %w", err))
		}
		if cartesian {
			if u, err = divideCell(u, m.uc, d); err != nil {
				return nil, tbErrorf(opChangeCell, err)
			}
		}
		basis = u
	}
	basisInt, det, err := integralMatrix(basis, d)
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}
	if det != 1 {
		return nil, tbErrorf(opChangeCell, fmt.Errorf("determinant %d, want 1: %w", det, ErrInvalidCell))
	}
	off, err := m.reducedOffset(offset, cartesian)
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}

	// B is unimodular, so B⁻¹ is integral too.
	inv, _, err := invert(toFloats(basisInt), d)
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}
	toNew, _, err := integralMatrix(inv, d)
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}

	pos := make([][]float64, m.size)
	x := make([]float64, d)
	for i := range pos {
		for c := 0; c < d; c++ {
			x[c] = m.pos[i*d+c] - off[c]
		}
		pos[i] = vecMat(x, toFloats(toNew), d)
	}
	store, err := hopping.New(m.size, d, m.hop.Backing())
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}
	var addErr error
	m.hop.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
		r2, err := lattice.New(mulVector(r, toNew, d)...)
		if err != nil {
			addErr = err
			return
		}
		mat.Each(func(i, j int, t complex128) {
			if t != 0 && addErr == nil {
				addErr = store.AddAt(r2, i, j, t)
			}
		})
	})
	if addErr != nil {
		return nil, tbErrorf(opChangeCell, addErr)
	}

	o := Options{pos: pos, backing: m.hop.Backing(), hermTol: m.hermTol, hasOcc: m.hasOcc, occ: m.occ, reducePos: true}
	if m.uc != nil {
		o.uc = unflatten(matMul(toFloats(basisInt), m.uc, d), d, d)
	}
	out, err := newModel(store, o)
	if err != nil {
		return nil, tbErrorf(opChangeCell, err)
	}

	return out, nil
}

// FoldModel folds m, typically a supercell, back onto a smaller unit cell uc
// (Cartesian rows) whose origin sits at the Cartesian offset. labels names
// every orbital of m; orbitals with equal labels at equal positions modulo
// the new lattice are the same orbital of the folded model.
//
// Implementation:
//   - Stage 1: S = UC·uc⁻¹ must be integral; |det S| cells of uc tile m's cell
//     and must divide Size().
//   - Stage 2: every orbital gets a new-cell index n_i = ⌊y_i + tol⌋ and a
//     fractional position y_i − n_i, with y_i = (pos_i − offset)·S.
//   - Stage 3: the target orbitals (WithTargetOrbitals, or those with n_i = 0)
//     form the folded cell; every orbital is matched to the target with the
//     same label and fractional position within tol.
//   - Stage 4: for each target row i, element (R, i, j) becomes
//     (R·S + n_j − n_i, a(i), a(j)), where a maps orbitals to targets.
//
// The result must be Hermitian within the model tolerance (ErrNotHermitian),
// which fails when m is not periodic in uc.
//
// Complexity: O(size²·d + nnz·d²).
func (m *Model) FoldModel(uc [][]float64, offset []float64, labels []string, opts ...FoldOption) (*Model, error) {
	o := gatherFoldOptions(opts...)
	if m.uc == nil {
		return nil, tbErrorf(opFold, ErrNoUnitCell)
	}
	if len(labels) != m.size {
		return nil, tbErrorf(opFold, fmt.Errorf("%d labels for %d orbitals: %w", len(labels), m.size, ErrDimensionMismatch))
	}
	d := m.dim
	target, err := flatten(uc, d, d)
	if err != nil {
		return nil, tbErrorf(opFold, fmt.Errorf("unit cell: %w", err))
	}
	ratio, err := divideCell(m.uc, target, d)
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}
	toNew, det, err := integralMatrix(ratio, d)
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}
	cells := det
	if cells < 0 {
		cells = -cells
	}
	if cells == 0 || m.size%cells != 0 {
		return nil, tbErrorf(opFold, fmt.Errorf("%d cells do not tile %d orbitals: %w", cells, m.size, ErrInvalidCell))
	}
	newSize := m.size / cells
	off, err := m.reducedOffset(offset, true)
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}

	cellOf := make([][]int, m.size)
	frac := make([][]float64, m.size)
	x := make([]float64, d)
	for i := 0; i < m.size; i++ {
		for c := 0; c < d; c++ {
			x[c] = m.pos[i*d+c] - off[c]
		}
		y := vecMat(x, toFloats(toNew), d)
		cellOf[i] = make([]int, d)
		for c := range y {
			n := math.Floor(y[c] + o.posTol)
			cellOf[i][c] = int(n)
			y[c] -= n
		}
		frac[i] = y
	}

	targets, err := foldTargets(o.targets, cellOf, m.size)
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}
	if len(targets) != newSize {
		return nil, tbErrorf(opFold, fmt.Errorf("%d target orbitals, want %d: %w", len(targets), newSize, ErrOrbitalMatch))
	}
	row := make(map[int]int, newSize)
	for a, i := range targets {
		row[i] = a
	}
	match := make([]int, m.size)
	for i := range match {
		match[i] = -1
		for a, ti := range targets {
			if labels[ti] == labels[i] && floatsClose(frac[ti], frac[i], o.posTol) {
				match[i] = a
				break
			}
		}
		if match[i] < 0 {
			return nil, tbErrorf(opFold, fmt.Errorf("orbital %d (%q at %v): %w", i, labels[i], frac[i], ErrOrbitalMatch))
		}
	}

	store, err := hopping.New(newSize, d, m.hop.Backing())
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}
	var addErr error
	m.hop.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
		base := mulVector(r, toNew, d)
		shift := make([]int, d)
		mat.Each(func(i, j int, t complex128) {
			a, ok := row[i]
			if !ok || t == 0 || addErr != nil {
				return
			}
			for c := 0; c < d; c++ {
				shift[c] = base[c] + cellOf[j][c] - cellOf[i][c]
			}
			r2, err := lattice.New(shift...)
			if err != nil {
				addErr = err
				return
			}
			addErr = store.AddAt(r2, a, match[j], t)
		})
	})
	if addErr != nil {
		return nil, tbErrorf(opFold, addErr)
	}
	if err = store.ValidateHermitian(m.hermTol); err != nil {
		return nil, tbErrorf(opFold, fmt.Errorf("%w: %w", ErrNotHermitian, err))
	}

	pos := make([][]float64, newSize)
	for a, i := range targets {
		p := append([]float64(nil), frac[i]...)
		for c := range p {
			// matched within tolerance of the cell boundary
			if p[c] < 0 {
				p[c] = 0
			}
		}
		pos[a] = p
	}
	mo := Options{pos: pos, uc: uc, backing: m.hop.Backing(), hermTol: m.hermTol, reducePos: true}
	if m.hasOcc && (m.occ*newSize)%m.size == 0 {
		mo.occ, mo.hasOcc = m.occ*newSize/m.size, true
	}
	out, err := newModel(store, mo)
	if err != nil {
		return nil, tbErrorf(opFold, err)
	}

	return out, nil
}

// foldTargets validates explicit targets or collects the orbitals in cell 0.
func foldTargets(explicit []int, cellOf [][]int, size int) ([]int, error) {
	if explicit != nil {
		seen := make(map[int]bool, len(explicit))
		for _, i := range explicit {
			if i < 0 || i >= size || seen[i] {
				return nil, fmt.Errorf("target %d: %w", i, ErrOrbitalIndex)
			}
			seen[i] = true
		}

		return explicit, nil
	}
	var out []int
	for i, c := range cellOf {
		home := true
		for _, n := range c {
			home = home && n == 0
		}
		if home {
			out = append(out, i)
		}
	}

	return out, nil
}

// reducedOffset converts offset to reduced coordinates of m's cell.
func (m *Model) reducedOffset(offset []float64, cartesian bool) ([]float64, error) {
	if offset == nil {
		return make([]float64, m.dim), nil
	}
	off, err := flatten([][]float64{offset}, 1, m.dim)
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	if !cartesian {
		return off, nil
	}
	inv, _, err := invert(m.uc, m.dim)
	if err != nil {
		return nil, err
	}

	return vecMat(off, inv, m.dim), nil
}

// divideCell returns a·b⁻¹: the rows of a in reduced coordinates of b.
func divideCell(a, b []float64, n int) ([]float64, error) {
	inv, _, err := invert(b, n)
	if err != nil {
		return nil, err
	}

	return matMul(a, inv, n), nil
}

// integralMatrix rounds a to integers within DefaultLatticeTolerance and
// returns it with its determinant.
func integralMatrix(a []float64, n int) ([]int, int, error) {
	out := make([]int, len(a))
	for k, v := range a {
		r := math.Round(v)
		if math.Abs(v-r) > DefaultLatticeTolerance {
			return nil, 0, fmt.Errorf("entry (%d,%d) = %g is not integral: %w", k/n, k%n, v, ErrInvalidCell)
		}
		out[k] = int(r)
	}
	_, det, err := invert(toFloats(out), n)
	if err != nil {
		return nil, 0, err
	}

	return out, int(math.Round(det)), nil
}

// invert returns the inverse and determinant of the n×n row-major matrix a
// by Gauss-Jordan elimination with partial pivoting.
func invert(a []float64, n int) ([]float64, float64, error) {
	w := append([]float64(nil), a...)
	inv := identity(n)
	det := 1.0
	for c := 0; c < n; c++ {
		p := c
		for r := c + 1; r < n; r++ {
			if math.Abs(w[r*n+c]) > math.Abs(w[p*n+c]) {
				p = r
			}
		}
		if math.Abs(w[p*n+c]) < 1e-12 {
			return nil, 0, fmt.Errorf("singular cell: %w", ErrInvalidCell)
		}
		if p != c {
			swapRows(w, p, c, n)
			swapRows(inv, p, c, n)
			det = -det
		}
		pv := w[c*n+c]
		det *= pv
		for k := 0; k < n; k++ {
			w[c*n+k] /= pv
			inv[c*n+k] /= pv
		}
		for r := 0; r < n; r++ {
			if r == c {
				continue
			}
			f := w[r*n+c]
			if f == 0 {
				continue
			}
			for k := 0; k < n; k++ {
				w[r*n+k] -= f * w[c*n+k]
				inv[r*n+k] -= f * inv[c*n+k]
			}
		}
	}

	return inv, det, nil
}

func swapRows(a []float64, r, s, n int) {
	for k := 0; k < n; k++ {
		a[r*n+k], a[s*n+k] = a[s*n+k], a[r*n+k]
	}
}

func identity(n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = 1
	}

	return out
}

// matMul returns a·b for n×n row-major matrices.
func matMul(a, b []float64, n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if a[i*n+k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i*n+j] += a[i*n+k] * b[k*n+j]
			}
		}
	}

	return out
}

// vecMat returns the row vector x·a.
func vecMat(x, a []float64, n int) []float64 {
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			out[j] += x[k] * a[k*n+j]
		}
	}

	return out
}

// mulVector returns the integer row vector r·a.
func mulVector(r lattice.Vector, a []int, n int) []int {
	out := make([]int, n)
	for k := 0; k < n; k++ {
		rk := r.At(k)
		for j := 0; j < n; j++ {
			out[j] += rk * a[k*n+j]
		}
	}

	return out
}

func toFloats(a []int) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = float64(v)
	}

	return out
}
