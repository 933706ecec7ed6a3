// Package testdata builds synthetic MDX dictionary files in memory for use
// by this module's own tests. It is not a writer API: the module has no
// public encoder, and this package exists only to exercise the decoder
// against known-good byte layouts without checking large binary fixtures
// into the repository.
package testdata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/internal/keycipher"
)

// Article is one headword/body pair to encode.
type Article struct {
	Headword string
	Body     []byte
}

// Options configures the synthetic dictionary's wire-format shape.
type Options struct {
	V2               bool
	Encoding         format.Encoding
	KeyCaseSensitive bool
	StripKey         bool
	// KeysPerBlock splits the key list across multiple key content
	// blocks (and matching KeyBlockInfo directory records). Zero means
	// one block holding every key.
	KeysPerBlock int
	// RecordsPerBlock splits record bodies across multiple record
	// content blocks. Zero means one block holding every record.
	RecordsPerBlock int
	// RecordBlockType selects the compression applied to each record
	// content block. Only BlockZlib and BlockRaw are produced here; any
	// other value, BlockLZO included, yields Raw blocks.
	RecordBlockType format.BlockType
}

// Build assembles a full MDX byte stream from articles, in file order.
// Record offsets are assigned as the cumulative byte length of each
// preceding article's body plus its null terminator, matching how a real
// MDX encoder lays out the virtual record space.
func Build(articles []Article, opts Options) []byte {
	var out bytes.Buffer

	out.Write(buildMetaSection(opts))
	out.Write(buildKeySection(articles, opts))
	out.Write(buildRecordSection(articles, opts))

	return out.Bytes()
}

func buildMetaSection(opts Options) []byte {
	version := "1.2"
	if opts.V2 {
		version = "2.0"
	}

	encName := "UTF-8"
	if opts.Encoding == format.EncodingUTF16 {
		encName = "UTF-16"
	}

	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}

		return "No"
	}

	xmlText := fmt.Sprintf(
		`<Dictionary RequiredEngineVersion=%q Encrypted="0" Encoding=%q `+
			`KeyCaseSensitive=%q StripKey=%q Title="Fixture"/>`,
		version, encName, yesNo(opts.KeyCaseSensitive), yesNo(opts.StripKey),
	)

	units := utf16.Encode([]rune(xmlText))

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(units)*2))
	for _, u := range units {
		_ = binary.Write(&buf, binary.LittleEndian, u)
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))

	return buf.Bytes()
}

func writeWidth(buf *bytes.Buffer, isV2 bool, v uint64) {
	if isV2 {
		_ = binary.Write(buf, binary.BigEndian, v)
	} else {
		_ = binary.Write(buf, binary.BigEndian, uint32(v))
	}
}

func frameRaw(plaintext []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(format.BlockRaw))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(plaintext)

	return buf.Bytes()
}

func frameZlib(plaintext []byte) []byte {
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	_, _ = w.Write(plaintext)
	_ = w.Close()

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(format.BlockZlib))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(z.Bytes())

	return buf.Bytes()
}

func writeText(buf *bytes.Buffer, isV2 bool, enc format.Encoding, s string) {
	if enc == format.EncodingUTF16 {
		units := utf16.Encode([]rune(s))
		if isV2 {
			_ = binary.Write(buf, binary.BigEndian, uint16(len(units)))
		} else {
			_ = binary.Write(buf, binary.BigEndian, uint8(len(units)))
		}
		for _, u := range units {
			_ = binary.Write(buf, binary.LittleEndian, u)
		}
		if isV2 {
			_ = binary.Write(buf, binary.LittleEndian, uint16(0))
		}

		return
	}

	if isV2 {
		_ = binary.Write(buf, binary.BigEndian, uint16(len(s)))
	} else {
		_ = binary.Write(buf, binary.BigEndian, uint8(len(s)))
	}
	buf.WriteString(s)
	if isV2 {
		buf.WriteByte(0)
	}
}

func encodeKeyEntry(buf *bytes.Buffer, isV2 bool, enc format.Encoding, offset uint64, headword string) {
	if isV2 {
		_ = binary.Write(buf, binary.BigEndian, offset)
	} else {
		_ = binary.Write(buf, binary.BigEndian, uint32(offset))
	}

	if enc == format.EncodingUTF16 {
		for _, u := range utf16.Encode([]rune(headword)) {
			_ = binary.Write(buf, binary.LittleEndian, u)
		}
		_ = binary.Write(buf, binary.LittleEndian, uint16(0))

		return
	}

	buf.WriteString(headword)
	buf.WriteByte(0)
}

// recordOffsets returns, for each article, its byte offset into the
// virtual record space (each body followed by a one-unit null terminator).
func recordOffsets(articles []Article, enc format.Encoding) []uint64 {
	offsets := make([]uint64, len(articles))
	var running uint64
	termLen := uint64(1)
	if enc == format.EncodingUTF16 {
		termLen = 2
	}

	for i, a := range articles {
		offsets[i] = running
		running += uint64(len(a.Body)) + termLen
	}

	return offsets
}

func chunk(n, size int) []int {
	if size <= 0 {
		return []int{n}
	}

	var sizes []int
	for remaining := n; remaining > 0; {
		s := size
		if s > remaining {
			s = remaining
		}
		sizes = append(sizes, s)
		remaining -= s
	}

	return sizes
}

func buildKeySection(articles []Article, opts Options) []byte {
	offsets := recordOffsets(articles, opts.Encoding)
	sizes := chunk(len(articles), opts.KeysPerBlock)

	type builtBlock struct {
		frame     []byte
		nEntries  int
		head      string
		tail      string
		decompLen int
	}

	var blocks []builtBlock
	idx := 0
	for _, n := range sizes {
		var plain bytes.Buffer
		head, tail := "", ""
		for j := 0; j < n; j++ {
			a := articles[idx+j]
			encodeKeyEntry(&plain, opts.V2, opts.Encoding, offsets[idx+j], a.Headword)
			if j == 0 {
				head = a.Headword
			}
			if j == n-1 {
				tail = a.Headword
			}
		}

		blocks = append(blocks, builtBlock{
			frame:     frameRaw(plain.Bytes()),
			nEntries:  n,
			head:      head,
			tail:      tail,
			decompLen: plain.Len(),
		})
		idx += n
	}

	var infoBuf bytes.Buffer
	for _, b := range blocks {
		writeWidth(&infoBuf, opts.V2, uint64(b.nEntries))
		writeText(&infoBuf, opts.V2, opts.Encoding, b.head)
		writeText(&infoBuf, opts.V2, opts.Encoding, b.tail)
		writeWidth(&infoBuf, opts.V2, uint64(len(b.frame)))
		writeWidth(&infoBuf, opts.V2, uint64(b.decompLen))
	}
	infoPlain := infoBuf.Bytes()

	var infoSection []byte
	const infoChecksum = 0x5EED1234

	if opts.V2 {
		var z bytes.Buffer
		w := zlib.NewWriter(&z)
		_, _ = w.Write(infoPlain)
		_ = w.Close()

		ciphertext := keycipher.Obfuscate(z.Bytes(), infoChecksum)

		var sec bytes.Buffer
		_ = binary.Write(&sec, binary.LittleEndian, format.KeyBlockInfoMagic)
		_ = binary.Write(&sec, binary.LittleEndian, uint32(infoChecksum))
		sec.Write(ciphertext)
		infoSection = sec.Bytes()
	} else {
		infoSection = infoPlain
	}

	var totalEntries, nbBlocks, nbDecompTotal uint64
	for _, b := range blocks {
		totalEntries += uint64(b.nEntries)
		nbBlocks += uint64(len(b.frame))
		nbDecompTotal += uint64(b.decompLen)
	}

	var out bytes.Buffer
	writeWidth(&out, opts.V2, uint64(len(blocks)))
	writeWidth(&out, opts.V2, totalEntries)
	if opts.V2 {
		writeWidth(&out, opts.V2, nbDecompTotal)
	}
	writeWidth(&out, opts.V2, uint64(len(infoSection)))
	writeWidth(&out, opts.V2, nbBlocks)
	if opts.V2 {
		_ = binary.Write(&out, binary.LittleEndian, uint32(0))
	}

	out.Write(infoSection)
	for _, b := range blocks {
		out.Write(b.frame)
	}

	return out.Bytes()
}

func buildRecordSection(articles []Article, opts Options) []byte {
	sizes := chunk(len(articles), opts.RecordsPerBlock)

	termLen := 1
	if opts.Encoding == format.EncodingUTF16 {
		termLen = 2
	}

	type builtBlock struct {
		frame     []byte
		decompLen int
	}

	var blocks []builtBlock
	idx := 0
	for _, n := range sizes {
		var plain bytes.Buffer
		for j := 0; j < n; j++ {
			plain.Write(articles[idx+j].Body)
			plain.Write(make([]byte, termLen))
		}

		var frame []byte
		if opts.RecordBlockType == format.BlockZlib {
			frame = frameZlib(plain.Bytes())
		} else {
			frame = frameRaw(plain.Bytes())
		}

		blocks = append(blocks, builtBlock{frame: frame, decompLen: plain.Len()})
		idx += n
	}

	var totalEntries, nbBlocks uint64
	totalEntries = uint64(len(articles))
	for _, b := range blocks {
		nbBlocks += uint64(len(b.frame))
	}

	width := uint64(4)
	if opts.V2 {
		width = 8
	}

	var out bytes.Buffer
	writeWidth(&out, opts.V2, uint64(len(blocks)))
	writeWidth(&out, opts.V2, totalEntries)
	writeWidth(&out, opts.V2, uint64(len(blocks))*2*width)
	writeWidth(&out, opts.V2, nbBlocks)

	for _, b := range blocks {
		writeWidth(&out, opts.V2, uint64(len(b.frame)))
		writeWidth(&out, opts.V2, uint64(b.decompLen))
	}
	for _, b := range blocks {
		out.Write(b.frame)
	}

	return out.Bytes()
}
