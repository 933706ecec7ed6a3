package compress

import (
	"encoding/binary"
	"hash/adler32"

	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
)

// Decompressor decodes one content block's payload into nbDecompressed
// bytes of plaintext.
type Decompressor interface {
	Decompress(payload []byte, nbDecompressed int) ([]byte, error)
}

var decompressors = map[format.BlockType]Decompressor{
	format.BlockRaw:  RawCodec{},
	format.BlockLZO:  LZOCodec{},
	format.BlockZlib: ZlibCodec{},
}

// Block is a decoded content block: its declared type, the checksum word
// from the frame header (ignored unless verified explicitly), and the
// decompressed bytes.
type Block struct {
	Type     format.BlockType
	Checksum uint32
	Data     []byte
}

// DecodeBlock parses one content-block frame from raw, reading exactly
// nbCompressed bytes (the frame's declared compressed size, including the
// 8-byte type+checksum header) and decompressing the payload to exactly
// nbDecompressed bytes.
func DecodeBlock(raw []byte, nbCompressed, nbDecompressed int) (Block, error) {
	if nbCompressed < 8 || len(raw) < nbCompressed {
		return Block{}, errs.ErrTruncated
	}

	typeVal := binary.LittleEndian.Uint32(raw[0:4])
	checksum := binary.LittleEndian.Uint32(raw[4:8])
	payload := raw[8:nbCompressed]

	blockType := format.BlockType(typeVal)
	dec, ok := decompressors[blockType]
	if !ok {
		return Block{}, &errs.UnknownBlockTypeError{Value: typeVal}
	}

	data, err := dec.Decompress(payload, nbDecompressed)
	if err != nil {
		return Block{}, err
	}

	return Block{Type: blockType, Checksum: checksum, Data: data}, nil
}

// VerifyChecksum reports whether the frame's stored checksum matches the
// Adler-32 of the decompressed data. Nothing in the decoder pipeline calls
// this, and there is no option that makes it do so — the historical MDX
// corpus is routinely mis-checksummed and must still parse.
func VerifyChecksum(b Block) bool {
	return adler32.Checksum(b.Data) == b.Checksum
}
