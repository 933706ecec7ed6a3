// Package keyindex parses the MDX key index (spec component C5): the
// key-block header, the key-block-info directory (obfuscated and
// compressed in v2, plaintext in v1), and the key content
// blocks themselves, producing the ordered list of (record offset,
// headword) pairs that spec.md calls KeyEntry.
package keyindex

import (
	"bytes"
	"unicode/utf16"

	"github.com/mdxlib/mdx/compress"
	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/internal/bin"
	"github.com/mdxlib/mdx/internal/keycipher"
	"github.com/mdxlib/mdx/internal/pool"
)

// Entry is one (record offset, headword) pair. RecordOffset is a byte
// position into the virtual concatenation of decompressed record blocks
// (see the recordindex package); Headword is decoded per the dictionary's
// declared text encoding.
type Entry struct {
	RecordOffset uint64
	Headword     string
}

// blockInfo is the per-key-content-block directory record. Head and Tail
// are consulted only to cross-check the content block's first and last
// headwords (spec.md invariant 3); they are not retained afterward.
type blockInfo struct {
	NEntries       uint64
	Head           string
	Tail           string
	NBCompressed   uint64
	NBDecompressed uint64
}

// Header mirrors the fixed-width fields at the start of the key index.
type Header struct {
	NBlocks        uint64
	NEntries       uint64
	NBDecompressed uint64 // v2 only, zero in v1
	NBBlockInfo    uint64
	NBBlocks       uint64
}

// Options configures how the key index is parsed.
type Options struct {
	IsV2        bool
	Encoding    format.Encoding
	SizeCeiling int
}

// Parse reads the full key index from r and returns every entry in file
// order.
func Parse(r *bin.Reader, opts Options) ([]Entry, error) {
	header, err := parseHeader(r, opts.IsV2)
	if err != nil {
		return nil, err
	}

	infos, err := parseBlockInfoDirectory(r, header, opts.IsV2, opts.Encoding)
	if err != nil {
		return nil, err
	}

	ceiling := ceilingOrDefault(opts.SizeCeiling)

	entries := make([]Entry, 0, header.NEntries)
	for _, info := range infos {
		if info.NBDecompressed > uint64(ceiling) {
			return nil, &sizeCeilingError{declared: info.NBDecompressed, limit: uint64(ceiling)}
		}

		scratch := pool.GetKeyBlockBuffer()
		scratch.Grow(int(info.NBCompressed))
		scratch.SetLength(int(info.NBCompressed))
		if err := r.ReadInto(scratch.Bytes()); err != nil {
			pool.PutKeyBlockBuffer(scratch)
			return nil, err
		}

		block, err := compress.DecodeBlock(scratch.Bytes(), int(info.NBCompressed), int(info.NBDecompressed))
		pool.PutKeyBlockBuffer(scratch)
		if err != nil {
			return nil, err
		}

		blockEntries, err := parseKeyEntries(block.Data, info.NEntries, opts.IsV2, opts.Encoding)
		if err != nil {
			return nil, err
		}

		if len(blockEntries) > 0 {
			if blockEntries[0].Headword != info.Head || blockEntries[len(blockEntries)-1].Headword != info.Tail {
				return nil, errs.ErrInvalidKeyBlockInfo
			}
		}

		entries = append(entries, blockEntries...)
	}

	if uint64(len(entries)) != header.NEntries {
		return nil, errs.ErrInvalidKeyBlockInfo
	}

	return entries, nil
}

func ceilingOrDefault(n int) int {
	if n <= 0 {
		return format.DefaultSizeCeiling
	}

	return n
}

type sizeCeilingError struct {
	declared uint64
	limit    uint64
}

func (e *sizeCeilingError) Error() string {
	return "mdx: declared decompressed size exceeds ceiling"
}

func (e *sizeCeilingError) Unwrap() error { return errs.ErrSizeCeilingExceeded }

func parseHeader(r *bin.Reader, isV2 bool) (Header, error) {
	width := format.WidthFor(isV2)

	nBlocks, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}
	nEntries, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}

	var nbDecompressed uint64
	if isV2 {
		nbDecompressed, err = r.ReadWidth(width)
		if err != nil {
			return Header{}, err
		}
	}

	nbBlockInfo, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}
	nbBlocks, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}

	if isV2 {
		if _, err := r.ReadU32LE(); err != nil { // header checksum, ignored
			return Header{}, err
		}
	}

	return Header{
		NBlocks:        nBlocks,
		NEntries:       nEntries,
		NBDecompressed: nbDecompressed,
		NBBlockInfo:    nbBlockInfo,
		NBBlocks:       nbBlocks,
	}, nil
}

// parseBlockInfoDirectory reads and decodes the key-block-info section,
// then parses it into header.NBlocks blockInfo records.
func parseBlockInfoDirectory(r *bin.Reader, header Header, isV2 bool, enc format.Encoding) ([]blockInfo, error) {
	var plaintext []byte

	if isV2 {
		magic, err := r.ReadU32LE()
		if err != nil {
			return nil, err
		}
		if magic != format.KeyBlockInfoMagic {
			return nil, &errs.BadMagicError{Expected: format.KeyBlockInfoMagic, Found: magic, Offset: r.Offset()}
		}

		infoChecksum, err := r.ReadU32LE()
		if err != nil {
			return nil, err
		}

		ciphertext, err := r.ReadExact(int(header.NBBlockInfo) - 8)
		if err != nil {
			return nil, err
		}

		deobfuscated := keycipher.Deobfuscate(ciphertext, infoChecksum)

		plaintext, err = compress.InflateAll(deobfuscated)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err := r.ReadExact(int(header.NBBlockInfo))
		if err != nil {
			return nil, err
		}
		plaintext = raw
	}

	return parseBlockInfoRecords(plaintext, header.NBlocks, isV2, enc)
}

// parseBlockInfoRecords decodes the plaintext key-block-info stream into
// exactly nBlocks records.
func parseBlockInfoRecords(plaintext []byte, nBlocks uint64, isV2 bool, enc format.Encoding) ([]blockInfo, error) {
	r := bin.New(bytes.NewReader(plaintext))
	width := format.WidthFor(isV2)

	infos := make([]blockInfo, 0, nBlocks)
	for i := uint64(0); i < nBlocks; i++ {
		nEntries, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}

		head, err := readLenPrefixedText(r, isV2, enc)
		if err != nil {
			return nil, err
		}

		tail, err := readLenPrefixedText(r, isV2, enc)
		if err != nil {
			return nil, err
		}

		nbCompressed, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}
		nbDecompressed, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}

		infos = append(infos, blockInfo{
			NEntries:       nEntries,
			Head:           head,
			Tail:           tail,
			NBCompressed:   nbCompressed,
			NBDecompressed: nbDecompressed,
		})
	}

	return infos, nil
}

// readLenPrefixedText reads a head/tail string: a 16-bit (v2) or 8-bit (v1)
// length in text units (1 byte if UTF-8, else 2 bytes UTF-16LE), followed
// by that many units, plus (v2 only) one trailing null unit that is
// consumed and discarded.
func readLenPrefixedText(r *bin.Reader, isV2 bool, enc format.Encoding) (string, error) {
	var textLen int

	if isV2 {
		n, err := r.ReadU16BE()
		if err != nil {
			return "", err
		}
		textLen = int(n)
	} else {
		n, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		textLen = int(n)
	}

	if enc == format.EncodingUTF16 {
		units := make([]uint16, textLen)
		for i := range units {
			u, err := r.ReadU16LE()
			if err != nil {
				return "", err
			}
			units[i] = u
		}

		if isV2 {
			if _, err := r.ReadU16LE(); err != nil { // trailing null terminator unit
				return "", err
			}
		}

		return string(utf16.Decode(units)), nil
	}

	b, err := r.ReadExact(textLen)
	if err != nil {
		return "", err
	}

	if isV2 {
		if _, err := r.ReadU8(); err != nil { // trailing null terminator byte
			return "", err
		}
	}

	return string(b), nil
}

// parseKeyEntries iterates the decompressed bytes of one key content block
// as exactly nEntries (record_offset, headword) pairs.
func parseKeyEntries(data []byte, nEntries uint64, isV2 bool, enc format.Encoding) ([]Entry, error) {
	r := bin.New(bytes.NewReader(data))
	width := format.WidthFor(isV2)

	entries := make([]Entry, 0, nEntries)
	for i := uint64(0); i < nEntries; i++ {
		offset, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}

		word, err := r.ReadCStr(enc)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{RecordOffset: offset, Headword: word})
	}

	return entries, nil
}
