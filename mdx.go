// Package mdx decodes MDX dictionary files: a binary container format that
// wraps a metadata header, an (optionally obfuscated) index of headword to
// record-offset pairs, and a compressed record section holding the article
// for each offset.
//
// # Basic usage
//
//	dict, err := mdx.OpenFile("collins.mdx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entry, ok := dict.Lookup("apple")
//	if ok {
//	    article, err := dict.Article(entry)
//	    // article is raw bytes in the dictionary's declared encoding —
//	    // typically HTML, decoded by the caller.
//	}
//
// # Package structure
//
// This package is a thin façade over meta (the XML header), keyindex (the
// headword directory) and recordindex (the article store). Callers needing
// lower-level access — streaming a key index without materializing
// articles, say — can use those packages directly.
package mdx

import (
	"bytes"
	"os"
	"strings"

	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/internal/bin"
	"github.com/mdxlib/mdx/internal/lookupindex"
	"github.com/mdxlib/mdx/internal/options"
	"github.com/mdxlib/mdx/keyindex"
	"github.com/mdxlib/mdx/meta"
	"github.com/mdxlib/mdx/recordindex"
)

// Entry is one headword's directory record: its position in file order and
// its offset into the article store. Callers obtain entries from Lookup,
// Search, or Headwords and pass them to Article.
type Entry struct {
	keyindex.Entry
	index int // position in the file-ordered entry list, for Article's next-offset lookup
}

// openConfig collects the resolved settings for Open/OpenFile/OpenBytes.
type openConfig struct {
	sizeCeiling int
	lazy        bool
}

// OpenOption configures Open, OpenFile, and OpenBytes.
type OpenOption = options.Option[*openConfig]

// WithSizeCeiling overrides the default 64 MiB ceiling on any single
// declared decompressed block size. Pass a higher value for dictionaries
// with unusually large key or record blocks; parsing rejects anything
// above the ceiling with ErrSizeCeilingExceeded before allocating it.
func WithSizeCeiling(n int) OpenOption {
	return options.NoError(func(c *openConfig) { c.sizeCeiling = n })
}

// WithLazyRecords defers record-block decompression until Article is
// called, keeping only a prefix-sum directory in memory after Open
// returns. This is the preferred mode for large dictionaries; see
// WithEagerRecords for the alternative.
func WithLazyRecords() OpenOption {
	return options.NoError(func(c *openConfig) { c.lazy = true })
}

// WithEagerRecords decompresses every record block during Open, trading
// memory for simplicity and for Article calls that cannot fail. This is
// the default.
func WithEagerRecords() OpenOption {
	return options.NoError(func(c *openConfig) { c.lazy = false })
}

// Dictionary is the parsed, immutable view of one MDX file: its metadata,
// its ordered headword directory, and its article store. A *Dictionary is
// safe for concurrent read-only use.
type Dictionary struct {
	meta       meta.Meta
	entries    []keyindex.Entry
	records    *recordindex.Index
	normalized []string // entries[i].Headword normalized, parallel to entries
	lookup     *lookupindex.Index
}

// OpenFile reads path fully into memory and parses it as an MDX dictionary.
func OpenFile(path string, opts ...OpenOption) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return OpenBytes(data, opts...)
}

// Open parses an MDX dictionary already held in memory. It is equivalent to
// OpenBytes and exists as the short, commonly-reached-for spelling.
func Open(data []byte, opts ...OpenOption) (*Dictionary, error) {
	return OpenBytes(data, opts...)
}

// OpenBytes parses data as an MDX dictionary: the metadata header, then the
// key index, then the record index, in that fixed order (spec component
// C7). Any parse failure is returned immediately; there is no partial
// Dictionary.
func OpenBytes(data []byte, opts ...OpenOption) (*Dictionary, error) {
	cfg := &openConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := bin.New(bytes.NewReader(data))

	m, err := meta.Parse(r)
	if err != nil {
		return nil, err
	}

	isV2 := m.IsV2()
	enc := m.Encoding()

	entries, err := keyindex.Parse(r, keyindex.Options{
		IsV2:        isV2,
		Encoding:    enc,
		SizeCeiling: cfg.sizeCeiling,
	})
	if err != nil {
		return nil, err
	}

	var records *recordindex.Index
	if cfg.lazy {
		recordSection := data[r.Offset():]
		records, err = recordindex.Parse(bin.New(bytes.NewReader(recordSection)), recordindex.Options{
			IsV2:        isV2,
			SizeCeiling: cfg.sizeCeiling,
			Lazy:        true,
			Source:      recordSection,
		})
	} else {
		records, err = recordindex.Parse(r, recordindex.Options{
			IsV2:        isV2,
			SizeCeiling: cfg.sizeCeiling,
		})
	}
	if err != nil {
		return nil, err
	}

	d := &Dictionary{meta: m, entries: entries, records: records}

	d.normalized = make([]string, len(entries))
	for i, e := range entries {
		d.normalized[i] = d.normalize(e.Headword)
	}
	d.lookup = lookupindex.Build(d.normalized)

	return d, nil
}

// Meta returns the dictionary's parsed metadata header.
func (d *Dictionary) Meta() meta.Meta {
	return d.meta
}

// Len returns the number of headwords in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Headwords returns every entry in file order.
func (d *Dictionary) Headwords() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = Entry{Entry: e, index: i}
	}

	return out
}

// Lookup finds the entry whose headword exactly matches query, after
// normalizing both per the dictionary's KeyCaseSensitive and StripKey
// attributes (spec.md §6). It resolves in O(1) average time via a
// hash-bucketed index built once in OpenBytes, rather than scanning every
// entry.
func (d *Dictionary) Lookup(query string) (Entry, bool) {
	norm := d.normalize(query)

	if pos, ok := d.lookup.Lookup(norm, d.normalized); ok {
		return Entry{Entry: d.entries[pos], index: pos}, true
	}

	return Entry{}, false
}

// Search returns every entry whose headword contains query as a substring,
// after the same normalization as Lookup, in file order. Unlike Lookup,
// substring matching cannot be hash-accelerated, so this scans every entry.
func (d *Dictionary) Search(query string) []Entry {
	norm := d.normalize(query)

	var matches []Entry
	for i, e := range d.entries {
		if strings.Contains(d.normalized[i], norm) {
			matches = append(matches, Entry{Entry: e, index: i})
		}
	}

	return matches
}

// normalize applies StripKey (whitespace removal) and KeyCaseSensitive
// (ASCII case folding) to s, per spec.md §6's shared lookup/search rule.
func (d *Dictionary) normalize(s string) string {
	if d.meta.ShouldStripKey() {
		s = stripWhitespace(s)
	}
	if !d.meta.CaseSensitive() {
		s = strings.ToLower(s)
	}

	return s
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Article materializes the article bytes for entry: the byte range from
// its record offset up to the next entry's record offset (or the end of
// the record store, for the last entry), with any trailing null stripped
// (spec.md §4.6). The returned bytes are in the dictionary's declared
// encoding — UTF-8 or UTF-16LE — and are not decoded further; HTML
// rendering and text decoding are the caller's concern.
func (d *Dictionary) Article(e Entry) ([]byte, error) {
	if e.index < 0 || e.index >= len(d.entries) {
		return nil, errs.ErrOffsetOutOfRange
	}

	start := d.entries[e.index].RecordOffset

	end := d.records.Len()
	if e.index+1 < len(d.entries) {
		end = d.entries[e.index+1].RecordOffset
	}

	raw, err := d.records.Slice(start, end)
	if err != nil {
		return nil, err
	}

	return stripTrailingNull(raw, d.meta.Encoding()), nil
}

// stripTrailingNull removes one trailing encoding-width null terminator, if
// present: a single 0x00 byte for UTF-8, or a 0x00 0x00 code unit for
// UTF-16LE.
func stripTrailingNull(b []byte, enc format.Encoding) []byte {
	if enc == format.EncodingUTF16 {
		if len(b) >= 2 && b[len(b)-1] == 0 && b[len(b)-2] == 0 {
			return b[:len(b)-2]
		}

		return b
	}

	if len(b) >= 1 && b[len(b)-1] == 0 {
		return b[:len(b)-1]
	}

	return b
}
