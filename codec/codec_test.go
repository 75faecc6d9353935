// Package codec_test contains round-trip and corruption tests for archives.
package codec_test

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/codec"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/katalvlaran/tbmodels/tb"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, opts ...tb.Option) *tb.Model {
	t.Helper()
	base := []tb.Option{tb.WithPositions([][]float64{{0, 0, 0}, {0.5, 0.5, 0}}), tb.WithOcc(1)}
	b, err := tb.NewBuilder(2, 3, append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, b.AddOnSite([]float64{1, -1}))
	rs := []lattice.Vector{lattice.MustNew(0, 0, 0), lattice.MustNew(0, -1, 0), lattice.MustNew(-1, 0, 0), lattice.MustNew(-1, -1, 0)}
	for n, ph := range []complex128{1, -1i, 1i, -1} {
		require.NoError(t, b.AddHop(0.1*ph, 0, 1, rs[n]))
	}
	for _, r := range []lattice.Vector{lattice.MustNew(0, 1, 0), lattice.MustNew(1, 0, 0)} {
		require.NoError(t, b.AddHop(1.0/3, 0, 0, r))
		require.NoError(t, b.AddHop(-1.0/3, 1, 1, r))
	}
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

var frameOptions = []struct {
	name string
	opts []codec.Option
}{
	{"json-none", []codec.Option{codec.WithFormat(codec.JSON), codec.WithCompression(codec.None)}},
	{"json-zstd", []codec.Option{codec.WithFormat(codec.JSON), codec.WithCompression(codec.Zstd)}},
	{"json-lz4", []codec.Option{codec.WithFormat(codec.JSON), codec.WithCompression(codec.LZ4)}},
	{"yaml-none", []codec.Option{codec.WithFormat(codec.YAML), codec.WithCompression(codec.None)}},
	{"yaml-zstd", []codec.Option{codec.WithFormat(codec.YAML), codec.WithCompression(codec.Zstd)}},
	{"yaml-lz4", []codec.Option{codec.WithFormat(codec.YAML), codec.WithCompression(codec.LZ4)}},
}

// TestModelRoundTrip: every format and compression reproduces the model exactly.
func TestModelRoundTrip(t *testing.T) {
	models := map[string]*tb.Model{
		"dense":  fixture(t),
		"sparse": fixture(t, tb.WithSparse(), tb.WithUnitCell([][]float64{{1, 0, 0}, {0.5, 0.8660254037844386, 0}, {0, 0, 2}})),
	}
	for mname, m := range models {
		for _, fo := range frameOptions {
			t.Run(mname+"/"+fo.name, func(t *testing.T) {
				data, err := codec.EncodeModel(m, fo.opts...)
				require.NoError(t, err)
				require.Equal(t, codec.Magic, string(data[:4]))
				got, err := codec.DecodeModel(data)
				require.NoError(t, err)
				require.True(t, got.AllClose(m, 0))
				require.Equal(t, m.Backing(), got.Backing())
				require.Equal(t, m.HasUnitCell(), got.HasUnitCell())
			})
		}
	}
}

// TestKdotpRoundTrip covers k·p documents.
func TestKdotpRoundTrip(t *testing.T) {
	k, err := kdotp.FromTightBinding(fixture(t), []float64{0.1, 0.2, 0.3}, 2)
	require.NoError(t, err)
	for _, fo := range frameOptions {
		data, err := codec.EncodeKdotp(k, fo.opts...)
		require.NoError(t, err)
		got, err := codec.DecodeKdotp(data)
		require.NoError(t, err)
		require.True(t, got.AllClose(k, 0), fo.name)
	}
}

// TestSymmetryRoundTrip covers group documents and the plain YAML layout.
func TestSymmetryRoundTrip(t *testing.T) {
	tr := symmetry.MustNew([][]float64{{1, 0}, {0, 1}}, cmatrix.MustFromRows([][]complex128{{0, 1}, {-1, 0}}), true)
	c2 := symmetry.MustNew([][]float64{{-1, 0}, {0, -1}}, cmatrix.MustFromRows([][]complex128{{1i, 0}, {0, -1i}}), false)
	groups := []*codec.GroupRecord{
		codec.NewGroupRecord([]symmetry.Operation{tr}, true),
		codec.NewGroupRecord([]symmetry.Operation{c2, tr}, false),
	}
	data, err := codec.EncodeSymmetries(groups, codec.WithFormat(codec.YAML))
	require.NoError(t, err)
	got, err := codec.ParseSymmetries(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].FullGroup)
	ops, err := got[1].Ops()
	require.NoError(t, err)
	require.True(t, symmetry.Equal(ops[0], c2, 0))
	require.True(t, symmetry.Equal(ops[1], tr, 0))

	plain := []byte(`
groups:
  - full_group: true
    symmetries:
      - rotation: [[-1, 0], [0, -1]]
        repr: [[[1, 0], [0, 0]], [[0, 0], [-1, 0]]]
        has_cc: false
`)
	got, err = codec.ParseSymmetries(plain)
	require.NoError(t, err)
	ops, err = got[0].Ops()
	require.NoError(t, err)
	require.Equal(t, [][]float64{{-1, 0}, {0, -1}}, ops[0].Rotation())
	require.False(t, ops[0].HasCC())

	_, err = codec.ParseSymmetries([]byte("groups: []\n"))
	require.ErrorIs(t, err, symmetry.ErrNoOperations)
}

// TestParseSymmetriesNulls: null groups and null operations are corrupt input.
func TestParseSymmetriesNulls(t *testing.T) {
	_, err := codec.ParseSymmetries([]byte("groups:\n - full_group: true\n   symmetries:\n     - null\n"))
	require.ErrorIs(t, err, codec.ErrCorrupt)

	_, err = codec.ParseSymmetries([]byte("groups: [null]\n"))
	require.ErrorIs(t, err, codec.ErrCorrupt)

	g := &codec.GroupRecord{Operations: []*codec.OperationRecord{nil}}
	_, err = g.Ops()
	require.ErrorIs(t, err, codec.ErrCorrupt)

	var none *codec.GroupRecord
	_, err = none.Ops()
	require.ErrorIs(t, err, codec.ErrCorrupt)
}

// TestCorruptFrames: damaged or mismatched archives are rejected.
func TestCorruptFrames(t *testing.T) {
	data, err := codec.EncodeModel(fixture(t))
	require.NoError(t, err)

	_, err = codec.DecodeModel(data[:5])
	require.ErrorIs(t, err, codec.ErrCorrupt)

	bad := append([]byte("XXXX"), data[4:]...)
	_, err = codec.DecodeModel(bad)
	require.ErrorIs(t, err, codec.ErrCorrupt)

	wrongFormat := bytes.Clone(data)
	wrongFormat[4] = 9
	_, err = codec.DecodeModel(wrongFormat)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)

	wrongComp := bytes.Clone(data)
	wrongComp[5] = 9
	_, err = codec.DecodeModel(wrongComp)
	require.ErrorIs(t, err, codec.ErrUnknownCompression)

	truncated := data[:len(data)-3]
	_, err = codec.DecodeModel(truncated)
	require.ErrorIs(t, err, codec.ErrCorrupt)

	// a model frame is not a k·p frame
	_, err = codec.DecodeKdotp(data)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)
}

// TestRecordInvariants: decoding re-checks the Hermitian invariant.
func TestRecordInvariants(t *testing.T) {
	rec := codec.NewModelRecord(fixture(t))
	rec.Hoppings[0].Entries[0].Re += 1
	_, err := rec.Model()
	require.ErrorIs(t, err, tb.ErrNotHermitian)

	rec = codec.NewModelRecord(fixture(t))
	rec.Hoppings[0].Entries[0].I = 7
	_, err = rec.Model()
	require.ErrorIs(t, err, codec.ErrCorrupt)

	rec = codec.NewModelRecord(fixture(t))
	rec.Backing = "triangular"
	_, err = rec.Model()
	require.ErrorIs(t, err, codec.ErrCorrupt)
}

// TestWriteRead streams a document through an io.Writer/io.Reader pair.
func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	m := fixture(t)
	require.NoError(t, codec.Write(&buf, &codec.Document{Kind: codec.KindModel, Model: codec.NewModelRecord(m)}))
	doc, err := codec.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, codec.SchemaVersion, doc.Version)
	got, err := doc.Model.Model()
	require.NoError(t, err)
	require.True(t, got.AllClose(m, 0))
}

// TestParse covers the format and compression names.
func TestParse(t *testing.T) {
	f, err := codec.ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, codec.YAML, f)
	_, err = codec.ParseFormat("xml")
	require.ErrorIs(t, err, codec.ErrUnknownFormat)
	c, err := codec.ParseCompression("lz4")
	require.NoError(t, err)
	require.Equal(t, "lz4", c.String())
	_, err = codec.ParseCompression("brotli")
	require.ErrorIs(t, err, codec.ErrUnknownCompression)
}

// TestParseKpoints covers explicit points and sampled paths.
func TestParseKpoints(t *testing.T) {
	ks, err := codec.ParseKpoints([]byte("points:\n  - [0, 0, 0]\n  - [0.5, 0, 0]\n"))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 0, 0}, {0.5, 0, 0}}, ks)

	ks, err = codec.ParseKpoints([]byte("path: [[0], [0.5]]\nper_segment: 5\n"))
	require.NoError(t, err)
	require.Len(t, ks, 6)

	_, err = codec.ParseKpoints([]byte("points: [[0]]\npath: [[0], [1]]\nper_segment: 2\n"))
	require.ErrorIs(t, err, codec.ErrCorrupt)
}
