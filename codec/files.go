// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tbmodels/bands"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/katalvlaran/tbmodels/tb"
)

// EncodeModel frames m as a KindModel document.
func EncodeModel(m *tb.Model, opts ...Option) ([]byte, error) {
	return Marshal(&Document{Kind: KindModel, Model: NewModelRecord(m)}, opts...)
}

// DecodeModel decodes a KindModel frame.
func DecodeModel(data []byte) (*tb.Model, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind != KindModel || doc.Model == nil {
		return nil, codecErrorf(opModel, fmt.Errorf("kind %q: %w", doc.Kind, ErrUnknownFormat))
	}

	return doc.Model.Model()
}

// EncodeKdotp frames m as a KindKdotp document.
func EncodeKdotp(m *kdotp.Model, opts ...Option) ([]byte, error) {
	return Marshal(&Document{Kind: KindKdotp, Kdotp: NewKdotpRecord(m)}, opts...)
}

// DecodeKdotp decodes a KindKdotp frame.
func DecodeKdotp(data []byte) (*kdotp.Model, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind != KindKdotp || doc.Kdotp == nil {
		return nil, codecErrorf(opKdotp, fmt.Errorf("kind %q: %w", doc.Kind, ErrUnknownFormat))
	}

	return doc.Kdotp.Kdotp()
}

// symmetryFile is the layout of a hand-written symmetry file.
type symmetryFile struct {
	Groups []*GroupRecord `yaml:"groups"`
}

// ParseSymmetries reads a YAML symmetry file:
//
//	groups:
//	  - full_group: true
//	    symmetries:
//	      - rotation: [[-1, 0], [0, -1]]
//	        repr: [[[1, 0], [0, 0]], [[0, 0], [-1, 0]]]
//	        has_cc: false
//
// A framed KindSymmetries archive is accepted too.
func ParseSymmetries(data []byte) ([]*GroupRecord, error) {
	if len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic {
		doc, err := Unmarshal(data)
		if err != nil {
			return nil, err
		}
		if doc.Kind != KindSymmetries {
			return nil, codecErrorf(opSymmetry, fmt.Errorf("kind %q: %w", doc.Kind, ErrUnknownFormat))
		}

		return checkGroups(doc.Groups)
	}
	var f symmetryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, codecErrorf(opSymmetry, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	if len(f.Groups) == 0 {
		return nil, codecErrorf(opSymmetry, fmt.Errorf("no groups: %w", symmetry.ErrNoOperations))
	}

	return checkGroups(f.Groups)
}

// checkGroups rejects null groups and null operations left by YAML or JSON nulls.
func checkGroups(groups []*GroupRecord) ([]*GroupRecord, error) {
	for gi, g := range groups {
		if g == nil {
			return nil, codecErrorf(opSymmetry, fmt.Errorf("group %d is null: %w", gi, ErrCorrupt))
		}
		for oi, r := range g.Operations {
			if r == nil {
				return nil, codecErrorf(opSymmetry, fmt.Errorf("group %d: operation %d is null: %w", gi, oi, ErrCorrupt))
			}
		}
	}

	return groups, nil
}

// EncodeSymmetries frames groups as a KindSymmetries document.
func EncodeSymmetries(groups []*GroupRecord, opts ...Option) ([]byte, error) {
	return Marshal(&Document{Kind: KindSymmetries, Groups: groups}, opts...)
}

// KpointsFile is the layout of a k-point file: either explicit points or a
// path through nodes sampled with PerSegment points per segment.
type KpointsFile struct {
	Points     [][]float64 `yaml:"points,omitempty"`
	Path       [][]float64 `yaml:"path,omitempty"`
	PerSegment int         `yaml:"per_segment,omitempty"`
}

// ParseKpoints reads a YAML k-point file and returns the k-points.
func ParseKpoints(data []byte) ([][]float64, error) {
	var f KpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, codecErrorf(opKpoints, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	switch {
	case len(f.Points) > 0 && len(f.Path) > 0:
		return nil, codecErrorf(opKpoints, fmt.Errorf("both points and path given: %w", ErrCorrupt))
	case len(f.Points) > 0:
		return f.Points, nil
	default:
		ks, err := bands.Path(f.Path, f.PerSegment)
		if err != nil {
			return nil, codecErrorf(opKpoints, err)
		}

		return ks, nil
	}
}
