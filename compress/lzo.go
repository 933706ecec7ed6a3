package compress

import (
	"bytes"
	"fmt"

	lzo "github.com/rasky/go-lzo"

	"github.com/mdxlib/mdx/errs"
)

// LZOCodec handles content blocks compressed with LZO1X (format.BlockLZO).
//
// No repository in the corpus ships an LZO1X decoder (the format predates
// the now-common Zstd/S2/LZ4 trio); go-lzo is the standard pure-Go LZO1X
// decompressor used by the wider ecosystem's MDX-reading tools.
type LZOCodec struct{}

// Decompress decompresses payload, which must expand to exactly
// nbDecompressed bytes.
//
// go-lzo's Decompress1X panics (via internal assertions) on malformed
// input instead of returning an error, so this recovers and converts any
// panic into a DecompressionError to keep the same no-panic contract as
// the other codecs.
func (c LZOCodec) Decompress(payload []byte, nbDecompressed int) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &errs.DecompressionError{Method: "lzo1x", Cause: fmt.Errorf("%v", r)}
		}
	}()

	out = lzo.Decompress1X(bytes.NewReader(payload), len(payload), nbDecompressed)
	if len(out) != nbDecompressed {
		return nil, &errs.DecompressionError{Method: "lzo1x", Cause: errs.ErrTruncated}
	}

	return out, nil
}
