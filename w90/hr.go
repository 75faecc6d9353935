// SPDX-License-Identifier: MIT

// Package w90 - Wannier90 *_hr.dat reader and writer.
//
// Format:
//
//	header line
//	num_wann
//	nrpts
//	degeneracies, 15 per line, nrpts in total
//	nrpts·num_wann² lines "R1 R2 R3 a b Re Im" (orbitals 1-based, a fastest)
//
// Each value is divided by the degeneracy of its R block and stored at
// hop[R][a−1, b−1]. The file holds the full representation, so the result
// is checked for hop[−R] == hop[R]^H by tb.FromHoppings.
//
// Positions, unit cell and occupation are not part of the format; pass them
// with WithModelOptions. Written values keep 6 decimals.
package w90

import (
	"bufio"
	"fmt"
	"io"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/tb"
)

// Header is the first line written by WriteHR.
const Header = " written by tbmodels"

// degPerLine is the number of degeneracies per line.
const degPerLine = 15

// Option configures ReadHR.
type Option func(*Options)

// Options is the resolved ReadHR configuration.
type Options struct {
	cutoff float64
	model  []tb.Option
}

// WithCutoff drops entries with |t| <= c (default 0: only exact zeros).
func WithCutoff(c float64) Option { return func(o *Options) { o.cutoff = c } }

// WithModelOptions forwards construction options (positions, unit cell,
// occupation, backing, tolerance) to tb.FromHoppings.
func WithModelOptions(opts ...tb.Option) Option {
	return func(o *Options) { o.model = append(o.model, opts...) }
}

// lineReader yields lines with their 1-based numbers.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (l *lineReader) next() (string, bool) {
	if !l.sc.Scan() {
		return "", false
	}
	l.line++

	return l.sc.Text(), true
}

// nextInt reads a line holding a single integer.
func (l *lineReader) nextInt(what string) (int, error) {
	s, ok := l.next()
	if !ok {
		return 0, lineErrorf(l.line+1, "missing %s", what)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, lineErrorf(l.line, "%s %q", what, s)
	}

	return n, nil
}

// ReadHR parses an hr.dat stream into a three-dimensional tb.Model.
//
// Errors: ErrParse for malformed counts, orbital numbers out of the
// expected column-major order, or a wrong number of entries; tb errors
// (e.g. tb.ErrNotHermitian) from model construction.
func ReadHR(r io.Reader, opts ...Option) (*tb.Model, error) {
	var o Options
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}
	lr := &lineReader{sc: bufio.NewScanner(r)}
	lr.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if _, ok := lr.next(); !ok {
		return nil, w90Errorf(opRead, lineErrorf(1, "missing header"))
	}
	numWann, err := lr.nextInt("num_wann")
	if err != nil {
		return nil, w90Errorf(opRead, err)
	}
	nrpts, err := lr.nextInt("nrpts")
	if err != nil {
		return nil, w90Errorf(opRead, err)
	}

	deg := make([]int, 0, nrpts)
	for n := 0; n < (nrpts+degPerLine-1)/degPerLine; n++ {
		s, ok := lr.next()
		if !ok {
			return nil, w90Errorf(opRead, lineErrorf(lr.line+1, "missing degeneracies"))
		}
		for _, f := range strings.Fields(s) {
			d, err := strconv.Atoi(f)
			if err != nil || d <= 0 {
				return nil, w90Errorf(opRead, lineErrorf(lr.line, "degeneracy %q", f))
			}
			deg = append(deg, d)
		}
	}
	if len(deg) != nrpts {
		return nil, w90Errorf(opRead, lineErrorf(lr.line, "%d degeneracies, want %d", len(deg), nrpts))
	}

	sq := numWann * numWann
	hop := make(map[lattice.Vector]*cmatrix.Dense)
	i := 0
	for {
		s, ok := lr.next()
		if !ok {
			break
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		f := strings.Fields(s)
		if len(f) != 7 {
			return nil, w90Errorf(opRead, lineErrorf(lr.line, "%d fields, want 7", len(f)))
		}
		if i >= nrpts*sq {
			return nil, w90Errorf(opRead, lineErrorf(lr.line, "more than %d entries", nrpts*sq))
		}
		var ints [5]int
		for k := range ints {
			if ints[k], err = strconv.Atoi(f[k]); err != nil {
				return nil, w90Errorf(opRead, lineErrorf(lr.line, "field %d %q", k+1, f[k]))
			}
		}
		re, err1 := strconv.ParseFloat(f[5], 64)
		im, err2 := strconv.ParseFloat(f[6], 64)
		if err1 != nil || err2 != nil {
			return nil, w90Errorf(opRead, lineErrorf(lr.line, "value %q %q", f[5], f[6]))
		}
		a, b := ints[3]-1, ints[4]-1
		if a != i%numWann || b != (i%sq)/numWann {
			return nil, w90Errorf(opRead, lineErrorf(lr.line, "inconsistent orbital numbers %d %d", ints[3], ints[4]))
		}
		t := complex(re, im) / complex(float64(deg[i/sq]), 0)
		i++
		if cmplx.Abs(t) <= o.cutoff {
			continue
		}
		key := lattice.MustNew(ints[0], ints[1], ints[2])
		mat, ok := hop[key]
		if !ok {
			mat, _ = cmatrix.NewDense(numWann, numWann)
			hop[key] = mat
		}
		old, _ := mat.At(a, b)
		_ = mat.Set(a, b, old+t)
	}
	if err = lr.sc.Err(); err != nil {
		return nil, w90Errorf(opRead, err)
	}
	if i != nrpts*sq {
		return nil, w90Errorf(opRead, lineErrorf(lr.line, "%d entries, want %d", i, nrpts*sq))
	}

	terms := make(map[lattice.Vector]cmatrix.Matrix, len(hop))
	for r, mat := range hop {
		terms[r] = mat
	}
	m, err := tb.FromHoppings(numWann, 3, terms, o.model...)
	if err != nil {
		return nil, w90Errorf(opRead, err)
	}

	return m, nil
}

// WriteHR writes m in hr.dat layout: every stored R in sorted order with
// degeneracy 1, entries column-major with 6 decimals.
func WriteHR(w io.Writer, m *tb.Model) error {
	if m == nil {
		return w90Errorf(opWrite, tb.ErrNilModel)
	}
	if m.Dim() != 3 {
		return w90Errorf(opWrite, fmt.Errorf("dim %d: %w", m.Dim(), ErrDimensionMismatch))
	}
	keys := m.Keys()
	if len(keys) == 0 {
		return w90Errorf(opWrite, ErrEmptyModel)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header)
	fmt.Fprintf(bw, "%12d\n%12d\n", m.Size(), len(keys))
	for n := range keys {
		if n > 0 && n%degPerLine == 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprint(bw, "    1")
	}
	fmt.Fprintln(bw)
	for _, r := range keys {
		mat, _ := m.Hop(r)
		for b := 0; b < m.Size(); b++ {
			for a := 0; a < m.Size(); a++ {
				t, _ := mat.At(a, b)
				fmt.Fprintf(bw, "%5d%5d%5d%5d%5d%12.6f%12.6f\n", r.At(0), r.At(1), r.At(2), a+1, b+1, real(t), imag(t))
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return w90Errorf(opWrite, err)
	}

	return nil
}
