// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Magic opens every archive frame.
const Magic = "TBM1"

// headerSize is magic + format + compression + uint32 payload size.
const headerSize = len(Magic) + 1 + 1 + 4

// Document kinds.
const (
	KindModel      = "tb_model"
	KindKdotp      = "kdotp_model"
	KindSymmetries = "symmetry_groups"
)

// SchemaVersion is the document version written by this package.
const SchemaVersion = 1

// Document is the archive payload. Exactly one of Model, Kdotp and Groups is
// set, as named by Kind.
type Document struct {
	Version int            `json:"version" yaml:"version"`
	Kind    string         `json:"kind" yaml:"kind"`
	Model   *ModelRecord   `json:"model,omitempty" yaml:"model,omitempty"`
	Kdotp   *KdotpRecord   `json:"kdotp,omitempty" yaml:"kdotp,omitempty"`
	Groups  []*GroupRecord `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Default frame settings.
const (
	DefaultFormat      = JSON
	DefaultCompression = Zstd
)

// Option configures Marshal and Write.
type Option func(*Options)

// Options is the resolved frame configuration.
type Options struct {
	format      Format
	compression Compression
}

// WithFormat selects the payload encoding.
func WithFormat(f Format) Option { return func(o *Options) { o.format = f } }

// WithCompression selects the frame compression.
func WithCompression(c Compression) Option { return func(o *Options) { o.compression = c } }

func gatherOptions(user ...Option) Options {
	o := Options{format: DefaultFormat, compression: DefaultCompression}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// Marshal encodes doc into an archive frame.
func Marshal(doc *Document, opts ...Option) ([]byte, error) {
	o := gatherOptions(opts...)
	c, err := ByFormat(o.format)
	if err != nil {
		return nil, codecErrorf(opMarshal, err)
	}
	if doc == nil {
		return nil, codecErrorf(opMarshal, fmt.Errorf("nil document: %w", ErrUnknownFormat))
	}
	d := *doc
	if d.Version == 0 {
		d.Version = SchemaVersion
	}
	payload, err := c.Marshal(&d)
	if err != nil {
		return nil, codecErrorf(opMarshal, err)
	}
	body, ok, err := compress(payload, o.compression)
	if err != nil {
		return nil, codecErrorf(opMarshal, err)
	}
	comp := o.compression
	if !ok {
		comp = None
	}

	out := make([]byte, headerSize, headerSize+len(body))
	copy(out, Magic)
	out[4] = byte(o.format)
	out[5] = byte(comp)
	binary.LittleEndian.PutUint32(out[6:], uint32(len(payload)))

	return append(out, body...), nil
}

// Unmarshal decodes an archive frame.
func Unmarshal(data []byte) (*Document, error) {
	if len(data) < headerSize || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, codecErrorf(opUnmarshal, fmt.Errorf("missing %s header: %w", Magic, ErrCorrupt))
	}
	c, err := ByFormat(Format(data[4]))
	if err != nil {
		return nil, codecErrorf(opUnmarshal, err)
	}
	payload, err := decompress(data[headerSize:], Compression(data[5]), binary.LittleEndian.Uint32(data[6:]))
	if err != nil {
		return nil, codecErrorf(opUnmarshal, err)
	}
	var doc Document
	if err = c.Unmarshal(payload, &doc); err != nil {
		return nil, codecErrorf(opUnmarshal, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	if doc.Version > SchemaVersion {
		return nil, codecErrorf(opUnmarshal, fmt.Errorf("version %d: %w", doc.Version, ErrUnsupportedVersion))
	}

	return &doc, nil
}

// Write marshals doc and writes the frame to w.
func Write(w io.Writer, doc *Document, opts ...Option) error {
	data, err := Marshal(doc, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)

	return err
}

// Read reads a whole frame from r and decodes it.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, codecErrorf(opUnmarshal, err)
	}

	return Unmarshal(data)
}
