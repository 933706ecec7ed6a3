// Package meta parses the leading metadata header of an MDX dictionary
// (spec component C4): a length-prefixed UTF-16LE XML blob describing the
// dictionary's wire-format version, text encoding, and display attributes.
package meta

import (
	"encoding/xml"
	"strconv"

	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/internal/bin"
)

// Meta is the parsed <Dictionary .../> (or <Library_Data .../>) header
// element. All fields are immutable after construction. Unknown attributes
// are tolerated and simply absent from this struct.
type Meta struct {
	GeneratedByEngineVersion string `xml:"GeneratedByEngineVersion,attr"`
	RequiredEngineVersion    string `xml:"RequiredEngineVersion,attr"`
	Format                   string `xml:"Format,attr"`
	KeyCaseSensitive         string `xml:"KeyCaseSensitive,attr"`
	StripKey                 string `xml:"StripKey,attr"`
	Encrypted                string `xml:"Encrypted,attr"`
	RegisterBy               string `xml:"RegisterBy,attr"`
	Description              string `xml:"Description,attr"`
	Title                    string `xml:"Title,attr"`
	EncodingName             string `xml:"Encoding,attr"`
	CreationDate             string `xml:"CreationDate,attr"`
	Compact                  string `xml:"Compact,attr"`
	Compat                   string `xml:"Compat,attr"`
	Left2Right               string `xml:"Left2Right,attr"`
	DataSourceFormat         string `xml:"DataSourceFormat,attr"`
	StyleSheet               string `xml:"StyleSheet,attr"`
}

// IsV2 reports whether RequiredEngineVersion selects the v2 wire format
// (>= 2.0). A malformed or empty version is treated as v1, the more
// permissive of the two shapes.
func (m Meta) IsV2() bool {
	v, err := strconv.ParseFloat(m.RequiredEngineVersion, 64)
	if err != nil {
		return false
	}

	return v >= 2.0
}

// Encoding returns the text encoding this dictionary declares for
// headwords and article bodies.
func (m Meta) Encoding() format.Encoding {
	return format.ParseEncoding(m.EncodingName)
}

// CaseSensitive reports whether headword comparisons should be case
// sensitive, per the KeyCaseSensitive attribute.
func (m Meta) CaseSensitive() bool {
	return m.KeyCaseSensitive == "Yes"
}

// ShouldStripKey reports whether whitespace must be stripped from
// headwords before comparison, per the StripKey attribute.
func (m Meta) ShouldStripKey() bool {
	return m.StripKey == "Yes"
}

// Parse reads the metadata header from r: a big-endian length prefix (in
// bytes), that many bytes of UTF-16LE XML, and a trailing 4-byte checksum
// (ignored).
func Parse(r *bin.Reader) (Meta, error) {
	headerLen, err := r.ReadU32BE()
	if err != nil {
		return Meta{}, err
	}
	if headerLen%2 != 0 {
		return Meta{}, errs.ErrMetadataDecodeFailed
	}

	xmlText, _, err := r.ReadWideLenPrefixed(int(headerLen / 2))
	if err != nil {
		return Meta{}, err
	}

	var m Meta
	if err := xml.Unmarshal([]byte(xmlText), &m); err != nil {
		return Meta{}, &metaDecodeError{cause: err}
	}

	if m.Encrypted != "" && m.Encrypted != "0" {
		return Meta{}, &errs.UnsupportedEncryptedError{Value: m.Encrypted}
	}

	return m, nil
}

type metaDecodeError struct {
	cause error
}

func (e *metaDecodeError) Error() string {
	return "mdx: metadata decode failed: " + e.cause.Error()
}

func (e *metaDecodeError) Unwrap() error { return errs.ErrMetadataDecodeFailed }
