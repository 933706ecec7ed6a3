package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/mdxlib/mdx/errs"
)

// ZlibCodec handles content blocks compressed with RFC 1950 zlib (format.BlockZlib).
//
// It uses klauspost/compress's zlib package, a faster drop-in replacement
// for the standard library's compress/zlib, the same dependency the teacher
// module brings in for its own (zstd-focused) compression package.
type ZlibCodec struct{}

// Decompress inflates payload into exactly nbDecompressed bytes.
func (ZlibCodec) Decompress(payload []byte, nbDecompressed int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &errs.DecompressionError{Method: "zlib", Cause: err}
	}
	defer zr.Close()

	out := make([]byte, nbDecompressed)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, &errs.DecompressionError{Method: "zlib", Cause: err}
	}

	return out, nil
}

// InflateAll inflates payload until EOF, with no predetermined output size.
// Used for the v2 key-block-info section, whose decompressed length is not
// declared up front.
func InflateAll(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &errs.DecompressionError{Method: "zlib", Cause: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &errs.DecompressionError{Method: "zlib", Cause: err}
	}

	return out, nil
}
