package compress

import (
	"bytes"
	"testing"

	"github.com/mdxlib/mdx/format"
	"github.com/stretchr/testify/require"
)

// literalOnlyLZO1X builds the smallest valid LZO1X stream for plaintext: a
// single initial literal run (first byte = len+17, len in [4,238]) followed
// by the standard 3-byte end-of-stream marker (0x11, 0x00, 0x00). No
// back-reference matches are involved, which is why this encoding is
// hand-derivable without an LZO1X encoder library.
func literalOnlyLZO1X(t *testing.T, plaintext []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(plaintext), 4)
	require.LessOrEqual(t, len(plaintext), 238)

	var buf bytes.Buffer
	buf.WriteByte(byte(len(plaintext) + 17))
	buf.Write(plaintext)
	buf.Write([]byte{0x11, 0x00, 0x00})

	return buf.Bytes()
}

func TestLZOCodec_Decompress_LiteralRun(t *testing.T) {
	plaintext := []byte("mdx lzo literal block fixture")
	payload := literalOnlyLZO1X(t, plaintext)

	out, err := LZOCodec{}.Decompress(payload, len(plaintext))
	require.NoError(t, err)
	require.Equal(t, plaintext, out)
}

func TestDecodeBlock_LZO(t *testing.T) {
	plaintext := []byte("article body stored as an lzo1x compressed block")
	payload := literalOnlyLZO1X(t, plaintext)
	raw := frame(format.BlockLZO, payload)

	b, err := DecodeBlock(raw, len(raw), len(plaintext))
	require.NoError(t, err)
	require.Equal(t, format.BlockLZO, b.Type)
	require.Equal(t, plaintext, b.Data)
}

func TestLZOCodec_Decompress_MalformedInputReturnsError(t *testing.T) {
	// First byte claims a 238-byte initial literal run; the payload holds
	// none of it. go-lzo panics on the resulting out-of-range read instead
	// of returning an error, so this exercises the recover() path.
	payload := []byte{0xFF}

	out, err := LZOCodec{}.Decompress(payload, 1)
	require.Error(t, err)
	require.Nil(t, out)
}
