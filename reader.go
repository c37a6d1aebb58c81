package bigbed

import (
	"fmt"
	"io"

	"github.com/stw09701125/bio-format-bb/internal/binreader"
)

// Reader holds a BigBed file's immutable index: the fixed header and
// the chromosome list, each with its R-tree-populated offset list.
// Both are built once by Open and are read-only thereafter; they
// remain valid for inspection even after a Cursor created from this
// Reader has failed. A Reader itself holds no read position — each
// Cursor it creates owns its own traversal state over the same
// io.ReadSeeker, so distinct Cursors may coexist as long as callers
// don't issue concurrent reads against the shared source at the same
// time (spec.md §5: the source is exclusively held by whichever
// Cursor is mid-seek).
type Reader struct {
	src    io.ReadSeeker
	header FixedHeader
	chroms ChromList
	// dataCount is the total record count read immediately after the
	// chromosome B+ tree walk. It is an observable property (spec.md
	// §4.6, §8) but does not gate iteration termination.
	dataCount uint32
	opts      openOptions
}

// Open parses a BigBed file's fixed header, chromosome B+ tree and
// data R-tree from r, and returns a Reader ready to mint Cursors. It
// does not validate the fixed header's magic against BigBedMagic —
// a caller that needs that guarantee should call Sniff first, or
// check Header().Magic itself; see spec.md §4.2.
func Open(r io.ReadSeeker, options ...Option) (*Reader, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	header, err := decodeFixedHeader(r)
	if err != nil {
		return nil, err
	}

	chroms, err := readChromTree(r, header.ChromTreeOffset)
	if err != nil {
		return nil, err
	}

	dataCount, err := readDataCount(r, header.DataOffset)
	if err != nil {
		return nil, err
	}

	if err := populateOffsetLists(r, header.DataIndexOffset, chroms); err != nil {
		return nil, err
	}

	return &Reader{
		src:       r,
		header:    header,
		chroms:    chroms,
		dataCount: dataCount,
		opts:      opts,
	}, nil
}

// readDataCount reads the u32 record-count counter that sits
// immediately before the payload region, at the header's data-offset
// (spec.md §4.6, §6): the on-disk layout places this counter right
// after the chromosome B+ tree's extent, which is exactly where the
// data-offset field points.
func readDataCount(r io.ReadSeeker, dataOffset uint64) (uint32, error) {
	if err := binreader.SeekTo(r, int64(dataOffset)); err != nil {
		return 0, fmt.Errorf("seek to data count: %w", err)
	}
	v, err := binreader.U32(r)
	if err != nil {
		return 0, fmt.Errorf("read data count: %w", ErrTruncated)
	}
	return v, nil
}

// Header returns the decoded fixed header.
func (rd *Reader) Header() FixedHeader {
	return rd.header
}

// Chroms returns the dense, id-ordered chromosome list.
func (rd *Reader) Chroms() ChromList {
	return rd.chroms
}

// DataCount returns the total record count read after the chromosome
// B+ tree walk.
func (rd *Reader) DataCount() uint32 {
	return rd.dataCount
}

// Cursor returns a fresh record iterator over this Reader's source,
// starting at the first chromosome's first block. Each call returns
// an independent Cursor; callers must not use two Cursors from the
// same Reader concurrently, since both would issue absolute seeks
// against the one underlying io.ReadSeeker.
func (rd *Reader) Cursor() *Cursor {
	return newCursor(rd.src, rd.chroms, rd.opts)
}
