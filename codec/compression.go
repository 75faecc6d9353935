// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the frame compression algorithm.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Compression = 1
	// Zstd uses Zstandard (better ratio). Default for archives.
	Zstd Compression = 2
)

// String returns the stable name of c.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" and "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownCompression)
	}
}

// zstd encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}

	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}

	return zstd.NewReader(nil)
}

// compress returns data compressed with c. An incompressible LZ4 block is
// reported as ok == false and must be stored uncompressed.
func compress(data []byte, c Compression) (out []byte, ok bool, err error) {
	switch c {
	case None:
		return data, false, nil
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			return data, false, nil
		}

		return buf[:n], true, nil
	case Zstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, false, err
		}
		defer zstdEncoderPool.Put(enc)

		return enc.EncodeAll(data, nil), true, nil
	default:
		return nil, false, fmt.Errorf("%s: %w", c, ErrUnknownCompression)
	}
}

// decompress inverts compress; size is the expected uncompressed length.
func decompress(data []byte, c Compression, size uint32) ([]byte, error) {
	switch c {
	case None:
		if uint32(len(data)) != size {
			return nil, fmt.Errorf("payload %d bytes, header says %d: %w", len(data), size, ErrCorrupt)
		}

		return data, nil
	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("lz4: %d bytes, header says %d: %w", n, size, ErrCorrupt)
		}

		return out, nil
	case Zstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("zstd: %d bytes, header says %d: %w", len(out), size, ErrCorrupt)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%s: %w", c, ErrUnknownCompression)
	}
}
