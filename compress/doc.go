// Package compress implements the MDX content-block codec (spec component
// C2): parsing one framed (type, checksum, payload) block and dispatching
// decompression on the declared block type.
//
// # Frame layout
//
// Every content block, whether it belongs to the key index or the record
// index, shares the same 8-byte-plus-payload frame:
//
//	u32_le type
//	u32_le checksum   // not verified by DecodeBlock
//	payload[nb_compressed-8]
//
// # Supported block types
//
//   - Raw (format.BlockRaw): payload is the plaintext verbatim.
//   - LZO (format.BlockLZO): LZO1X-compressed, via github.com/rasky/go-lzo.
//   - Zlib (format.BlockZlib): RFC 1950 zlib, via github.com/klauspost/compress/zlib.
//
// Any other declared type is an UnknownBlockTypeError. Checksums are never
// verified implicitly: the historical MDX corpus contains many files with
// stale or wrong checksums that still decode correctly, so verification is
// opt-in via VerifyChecksum.
package compress
