// Package format defines the shared wire-format vocabulary for MDX dictionary
// containers: content-block types, text encodings, and the fixed sizes that
// distinguish the v1 and v2 wire variants.
package format

// BlockType identifies how a content block's payload is packed.
type BlockType uint32

const (
	BlockRaw  BlockType = 0 // BlockRaw is stored verbatim, no compression.
	BlockLZO  BlockType = 1 // BlockLZO is LZO1X-compressed.
	BlockZlib BlockType = 2 // BlockZlib is zlib (RFC 1950) compressed.
)

func (t BlockType) String() string {
	switch t {
	case BlockRaw:
		return "Raw"
	case BlockLZO:
		return "LZO"
	case BlockZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// Encoding is the text encoding declared by a dictionary's metadata header.
type Encoding uint8

const (
	EncodingUTF8  Encoding = iota // EncodingUTF8 is UTF-8 text.
	EncodingUTF16                // EncodingUTF16 is UTF-16LE text on disk.
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16:
		return "UTF-16"
	default:
		return "Unknown"
	}
}

// ParseEncoding maps a DictMeta "Encoding" attribute value to an Encoding.
// Anything other than "UTF-16" is treated as UTF-8, matching the historical
// MDX corpus where the attribute is frequently empty or "".
func ParseEncoding(s string) Encoding {
	if s == "UTF-16" {
		return EncodingUTF16
	}

	return EncodingUTF8
}

// IntWidth is the on-disk width of the length/offset/count fields that vary
// between the v1 and v2 wire formats.
type IntWidth uint8

const (
	Width32 IntWidth = 4 // Width32 is the v1 field width.
	Width64 IntWidth = 8 // Width64 is the v2 field width.
)

// WidthFor returns the integer field width used by the key-index and
// record-index headers for a given wire version.
func WidthFor(isV2 bool) IntWidth {
	if isV2 {
		return Width64
	}

	return Width32
}

// KeyBlockInfoMagic is the 4-byte little-endian sentinel that prefixes the
// v2 key-block-info section, read before the obfuscation checksum.
const KeyBlockInfoMagic uint32 = 0x00000002

// DefaultSizeCeiling bounds any single declared nb_decompressed value, as a
// defense against corrupt or hostile files claiming implausible sizes.
const DefaultSizeCeiling = 64 * 1024 * 1024 // 64 MiB
