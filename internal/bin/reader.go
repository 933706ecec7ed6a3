// Package bin provides the low-level primitive reads shared by every layer
// of the mdx decoder pipeline: big/little-endian integers, null-terminated
// strings in UTF-8 or UTF-16LE, and length-prefixed byte runs.
//
// Reader tracks the number of bytes consumed so far so that errors can be
// reported with byte-offset context, matching the offset fields in the errs
// package's structured error types.
package bin

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mdxlib/mdx/endian"
	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
)

var (
	be = endian.GetBigEndianEngine()
	le = endian.GetLittleEndianEngine()
)

// Reader is a sequential cursor over a byte source. It is not safe for
// concurrent use; the decoder pipeline is single-threaded and blocking, and
// each parse uses its own Reader.
type Reader struct {
	r      io.Reader
	offset int64
}

// New wraps r in a Reader starting at offset 0.
func New(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the number of bytes consumed so far.
func (rd *Reader) Offset() int64 {
	return rd.offset
}

// ReadExact reads exactly n bytes, returning ErrTruncated if the source ends
// first.
func (rd *Reader) ReadExact(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return nil, errs.ErrTruncated
	}
	rd.offset += int64(n)

	return buf, nil
}

// ReadInto reads exactly len(buf) bytes into buf, returning ErrTruncated if
// the source ends first. Unlike ReadExact, it performs no allocation,
// letting callers reuse a pooled buffer for transient scratch reads.
func (rd *Reader) ReadInto(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return errs.ErrTruncated
	}
	rd.offset += int64(len(buf))

	return nil
}

// ReadU8 reads a single byte.
func (rd *Reader) ReadU8() (uint8, error) {
	b, err := rd.ReadExact(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16BE reads a big-endian 16-bit unsigned integer.
func (rd *Reader) ReadU16BE() (uint16, error) {
	b, err := rd.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return be.Uint16(b), nil
}

// ReadU16LE reads a little-endian 16-bit unsigned integer.
func (rd *Reader) ReadU16LE() (uint16, error) {
	b, err := rd.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return le.Uint16(b), nil
}

// ReadU32BE reads a big-endian 32-bit unsigned integer.
func (rd *Reader) ReadU32BE() (uint32, error) {
	b, err := rd.ReadExact(4)
	if err != nil {
		return 0, err
	}

	return be.Uint32(b), nil
}

// ReadU32LE reads a little-endian 32-bit unsigned integer.
func (rd *Reader) ReadU32LE() (uint32, error) {
	b, err := rd.ReadExact(4)
	if err != nil {
		return 0, err
	}

	return le.Uint32(b), nil
}

// ReadU64BE reads a big-endian 64-bit unsigned integer.
func (rd *Reader) ReadU64BE() (uint64, error) {
	b, err := rd.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return be.Uint64(b), nil
}

// ReadU64LE reads a little-endian 64-bit unsigned integer.
func (rd *Reader) ReadU64LE() (uint64, error) {
	b, err := rd.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return le.Uint64(b), nil
}

// ReadWidth reads an unsigned integer whose on-disk width is 4 bytes (v1) or
// 8 bytes (v2), always big-endian. This is the field shape used throughout
// the key-index and record-index headers and directories.
func (rd *Reader) ReadWidth(width format.IntWidth) (uint64, error) {
	if width == format.Width64 {
		return rd.ReadU64BE()
	}

	v, err := rd.ReadU32BE()

	return uint64(v), err
}

// ReadCStr reads bytes (UTF-8) or 16-bit code units (UTF-16LE) until a zero
// terminator and returns the decoded string. Malformed code units are
// replaced with U+FFFD. The terminator is consumed but not included in the
// result.
func (rd *Reader) ReadCStr(enc format.Encoding) (string, error) {
	if enc == format.EncodingUTF16 {
		return rd.readCStrUTF16()
	}

	return rd.readCStrUTF8()
}

func (rd *Reader) readCStrUTF8() (string, error) {
	var buf []byte

	for {
		b, err := rd.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}

	if !utf8.Valid(buf) {
		return toValidUTF8(buf), nil
	}

	return string(buf), nil
}

func (rd *Reader) readCStrUTF16() (string, error) {
	var units []uint16

	for {
		u, err := rd.ReadU16LE()
		if err != nil {
			return "", err
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}

	return string(utf16.Decode(units)), nil
}

// toValidUTF8 replaces malformed UTF-8 sequences with U+FFFD, one rune at a
// time, matching the mojibake repair behavior expected of the historical
// MDX corpus.
func toValidUTF8(b []byte) string {
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		out = append(out, r)
		i += size
	}

	return string(out)
}

// ReadWideLenPrefixed reads nUnits little-endian 16-bit code units followed
// by a 4-byte checksum (ignored), decoding the units as UTF-16LE text. This
// is used solely by the metadata header.
func (rd *Reader) ReadWideLenPrefixed(nUnits int) (string, uint32, error) {
	units := make([]uint16, nUnits)
	for i := range units {
		u, err := rd.ReadU16LE()
		if err != nil {
			return "", 0, err
		}
		units[i] = u
	}

	checksum, err := rd.ReadU32LE()
	if err != nil {
		return "", 0, err
	}

	return string(utf16.Decode(units)), checksum, nil
}
