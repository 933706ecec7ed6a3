// Package errs defines the sentinel error values returned by the mdx decoder
// pipeline, plus the structured error types that need byte-offset or value
// context. Callers should compare with errors.Is against the sentinels below,
// or errors.As against BadMagicError / UnknownBlockTypeError /
// DecompressionError when the extra fields are needed.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the byte source ended before a declared
	// length was satisfied.
	ErrTruncated = errors.New("mdx: truncated input")

	// ErrMetadataDecodeFailed is returned when the leading XML header has an
	// odd byte length or is not well-formed XML. Missing attributes are not
	// checked: an absent attribute is left as an empty string.
	ErrMetadataDecodeFailed = errors.New("mdx: metadata decode failed")

	// ErrUnsupportedEncrypted is returned when Meta.Encrypted is set to
	// anything other than "0" (an absent or empty value is accepted).
	ErrUnsupportedEncrypted = errors.New("mdx: encrypted dictionaries are not supported")

	// ErrSizeCeilingExceeded is returned when a declared nb_decompressed
	// value exceeds the configured ceiling, before any buffer is allocated.
	ErrSizeCeilingExceeded = errors.New("mdx: declared decompressed size exceeds ceiling")

	// ErrChecksumMismatch reports a content block whose checksum does not
	// match its payload. No parse path in this module returns it; checksums
	// are checked only by calling compress.VerifyChecksum directly.
	ErrChecksumMismatch = errors.New("mdx: checksum mismatch")

	// ErrInvalidKeyBlockInfo is returned when a key content block's first or
	// last headword differs from the head or tail in its key-block-info
	// record, or when the total number of parsed entries differs from the
	// key-index header's n_entries.
	ErrInvalidKeyBlockInfo = errors.New("mdx: invalid key-block-info directory")

	// ErrInvalidRecordBlockInfo is returned when the record-index directory
	// size does not match n_blocks records.
	ErrInvalidRecordBlockInfo = errors.New("mdx: invalid record-block directory")

	// ErrOffsetOutOfRange is returned when a key entry's record offset falls
	// outside the virtual record space.
	ErrOffsetOutOfRange = errors.New("mdx: record offset out of range")
)

// BadMagicError reports a sentinel mismatch, such as the v2 key-block-info
// magic number.
type BadMagicError struct {
	Expected uint32
	Found    uint32
	Offset   int64
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("mdx: bad magic at offset %d: expected 0x%08x, found 0x%08x", e.Offset, e.Expected, e.Found)
}

// Unwrap lets errors.Is(err, ErrBadMagic) style checks work against a
// dedicated sentinel as well as the structured form.
func (e *BadMagicError) Unwrap() error { return ErrBadMagic }

// ErrBadMagic is the sentinel behind every BadMagicError.
var ErrBadMagic = errors.New("mdx: bad magic number")

// UnknownBlockTypeError reports a content-block type outside {0, 1, 2}.
type UnknownBlockTypeError struct {
	Value uint32
}

func (e *UnknownBlockTypeError) Error() string {
	return fmt.Sprintf("mdx: unknown content block type %d", e.Value)
}

func (e *UnknownBlockTypeError) Unwrap() error { return ErrUnknownBlockType }

// ErrUnknownBlockType is the sentinel behind every UnknownBlockTypeError.
var ErrUnknownBlockType = errors.New("mdx: unknown content block type")

// UnsupportedEncryptedError reports a non-empty Meta.Encrypted value other
// than "0". The core only supports unencrypted dictionaries.
type UnsupportedEncryptedError struct {
	Value string
}

func (e *UnsupportedEncryptedError) Error() string {
	return fmt.Sprintf("mdx: unsupported Encrypted=%q (only \"0\" is supported)", e.Value)
}

func (e *UnsupportedEncryptedError) Unwrap() error { return ErrUnsupportedEncrypted }

// DecompressionError wraps a method-specific decompression failure with the
// method name that failed.
type DecompressionError struct {
	Method string
	Cause  error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("mdx: %s decompression failed: %v", e.Method, e.Cause)
}

func (e *DecompressionError) Unwrap() error { return e.Cause }
