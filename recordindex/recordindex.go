// Package recordindex parses the MDX record index (spec component C6): the
// record-block header, the directory of (compressed, decompressed) size
// pairs, and the record content blocks whose decompressed bytes concatenate
// into the virtual record space that key-entry offsets index into.
package recordindex

import (
	"github.com/mdxlib/mdx/compress"
	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/internal/bin"
	"github.com/mdxlib/mdx/internal/pool"
)

// BlockInfo is one directory entry: the on-disk size of a record content
// block and its decompressed size.
type BlockInfo struct {
	NBCompressed   uint64
	NBDecompressed uint64
}

// Header mirrors the fixed-width fields at the start of the record index.
type Header struct {
	NBlocks  uint64
	NEntries uint64
	NBInfo   uint64
	NBBlocks uint64
}

// Options configures how the record index is parsed.
type Options struct {
	IsV2        bool
	SizeCeiling int
	// Lazy selects on-demand block decompression backed by Source, keeping
	// a prefix-sum directory instead of materializing every block up
	// front. When false, Parse decompresses every block immediately and
	// Source is never retained.
	Lazy bool
	// Source supplies the record index's bytes on demand when Lazy is
	// true: the same underlying data r reads from, starting at the same
	// byte as r (the record-index header), so Parse can locate the first
	// content block by subtracting what it consumed from r.
	Source []byte
}

// Index owns the virtual record space, either fully materialized or backed
// by a prefix-sum directory over a lazily-decompressed source.
type Index struct {
	infos   []BlockInfo
	prefix  []uint64 // prefix[i] = sum of NBDecompressed over infos[:i]
	total   uint64
	eager   []byte // non-nil when materialized eagerly
	source  []byte // raw bytes of all content-block frames, back to back, when lazy
	ceiling int
}

// Parse reads the record-index header and directory from r, then either
// eagerly decompresses every content block (opts.Lazy == false) or builds a
// lazy Index backed by opts.Source (opts.Lazy == true).
//
// In the lazy case, opts.Source must start at the same byte as r (the
// record-index header) and outlive the returned Index, since content-block
// frames are decompressed from it on demand rather than read once from r.
func Parse(r *bin.Reader, opts Options) (*Index, error) {
	header, err := parseHeader(r, opts.IsV2)
	if err != nil {
		return nil, err
	}

	width := format.WidthFor(opts.IsV2)
	widthBytes := uint64(width)
	if header.NBInfo != header.NBlocks*2*widthBytes {
		return nil, errs.ErrInvalidRecordBlockInfo
	}

	infos := make([]BlockInfo, 0, header.NBlocks)
	for i := uint64(0); i < header.NBlocks; i++ {
		nbCompressed, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}
		nbDecompressed, err := r.ReadWidth(width)
		if err != nil {
			return nil, err
		}

		infos = append(infos, BlockInfo{NBCompressed: nbCompressed, NBDecompressed: nbDecompressed})
	}

	ceiling := ceilingOrDefault(opts.SizeCeiling)
	for _, info := range infos {
		if info.NBDecompressed > uint64(ceiling) {
			return nil, &sizeCeilingError{declared: info.NBDecompressed, limit: uint64(ceiling)}
		}
	}

	prefix := make([]uint64, len(infos)+1)
	for i, info := range infos {
		prefix[i+1] = prefix[i] + info.NBDecompressed
	}
	total := prefix[len(prefix)-1]

	if opts.Lazy {
		framesStart := int(r.Offset())
		if framesStart > len(opts.Source) {
			return nil, errs.ErrTruncated
		}

		return &Index{infos: infos, prefix: prefix, total: total, source: opts.Source[framesStart:], ceiling: ceiling}, nil
	}

	eager := make([]byte, 0, total)
	for _, info := range infos {
		scratch := pool.GetRecordBlockBuffer()
		scratch.Grow(int(info.NBCompressed))
		scratch.SetLength(int(info.NBCompressed))
		if err := r.ReadInto(scratch.Bytes()); err != nil {
			pool.PutRecordBlockBuffer(scratch)
			return nil, err
		}

		block, err := compress.DecodeBlock(scratch.Bytes(), int(info.NBCompressed), int(info.NBDecompressed))
		pool.PutRecordBlockBuffer(scratch)
		if err != nil {
			return nil, err
		}

		eager = append(eager, block.Data...)
	}

	return &Index{infos: infos, prefix: prefix, total: total, eager: eager, ceiling: ceiling}, nil
}

// Len returns the size of the virtual record space in bytes.
func (idx *Index) Len() uint64 {
	return idx.total
}

// Slice returns the decompressed bytes in the virtual record space over
// [start, end). It returns ErrOffsetOutOfRange if the range falls outside
// [0, Len()].
func (idx *Index) Slice(start, end uint64) ([]byte, error) {
	if start > end || end > idx.total {
		return nil, errs.ErrOffsetOutOfRange
	}

	if idx.eager != nil {
		return idx.eager[start:end], nil
	}

	return idx.sliceLazy(start, end)
}

// sliceLazy decompresses only the blocks that overlap [start, end), using
// the prefix-sum directory to locate them by binary search.
func (idx *Index) sliceLazy(start, end uint64) ([]byte, error) {
	out := make([]byte, 0, end-start)

	blockIdx := blockContaining(idx.prefix, start)
	byteOffset := blockByteOffset(idx.infos)

	for blockIdx < len(idx.infos) && idx.prefix[blockIdx] < end {
		info := idx.infos[blockIdx]
		blockStart := idx.prefix[blockIdx]
		blockEnd := idx.prefix[blockIdx+1]

		raw := idx.source[byteOffset[blockIdx] : byteOffset[blockIdx]+info.NBCompressed]
		block, err := compress.DecodeBlock(raw, int(info.NBCompressed), int(info.NBDecompressed))
		if err != nil {
			return nil, err
		}

		lo := uint64(0)
		if start > blockStart {
			lo = start - blockStart
		}
		hi := blockEnd - blockStart
		if end < blockEnd {
			hi = end - blockStart
		}

		out = append(out, block.Data[lo:hi]...)
		blockIdx++
	}

	return out, nil
}

// blockContaining returns the index of the block whose decompressed range
// contains byte offset off, via binary search over the prefix-sum array.
func blockContaining(prefix []uint64, off uint64) int {
	lo, hi := 0, len(prefix)-2
	for lo < hi {
		mid := (lo + hi) / 2
		if prefix[mid+1] <= off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

// blockByteOffset returns, for each block, its starting byte offset within
// the concatenated stream of all record content-block frames.
func blockByteOffset(infos []BlockInfo) []uint64 {
	offsets := make([]uint64, len(infos))
	var running uint64
	for i, info := range infos {
		offsets[i] = running
		running += info.NBCompressed
	}

	return offsets
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
	nbInfo, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}
	nbBlocks, err := r.ReadWidth(width)
	if err != nil {
		return Header{}, err
	}

	return Header{NBlocks: nBlocks, NEntries: nEntries, NBInfo: nbInfo, NBBlocks: nbBlocks}, nil
}
