package compress

import "github.com/mdxlib/mdx/errs"

// RawCodec handles content blocks stored verbatim (format.BlockRaw).
type RawCodec struct{}

// Decompress returns payload unchanged, after checking its length matches
// nbDecompressed exactly, per spec.md C2.
func (RawCodec) Decompress(payload []byte, nbDecompressed int) ([]byte, error) {
	if len(payload) != nbDecompressed {
		return nil, errs.ErrTruncated
	}

	out := make([]byte, nbDecompressed)
	copy(out, payload)

	return out, nil
}
