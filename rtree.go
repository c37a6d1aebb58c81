package bigbed

import (
	"fmt"
	"io"

	"github.com/stw09701125/bio-format-bb/internal/binreader"
)

// rTreeMagic is the sentinel at the R-tree (data index) root.
const rTreeMagic uint32 = 0x2468ACE0

// rtreeRootSize is the byte width of the 48-byte R-tree root header.
const rtreeRootSize = 48

// rtreeHeader mirrors the 48-byte R-tree root: magic, block-size,
// item-count, start/end chrom+base bounding box, end-file-offset,
// items-per-slot, reserved.
type rtreeHeader struct {
	magic        uint32
	blockSize    uint32
	itemCount    uint64
	startChromIx uint32
	startBase    uint32
	endChromIx   uint32
	endBase      uint32
	endFileOff   uint64
	itemsPerSlot uint32
	reserved     uint32
}

// populateOffsetLists walks the R-tree rooted at offset once per
// chromosome, appending every (block-offset, block-size) pair whose
// bounding box overlaps that chromosome's full [0, size) extent to
// the chromosome's OffsetList, in file-order within each leaf.
func populateOffsetLists(r io.ReadSeeker, offset uint64, chroms ChromList) error {
	if err := binreader.SeekTo(r, int64(offset)); err != nil {
		return fmt.Errorf("seek to r-tree root: %w", err)
	}
	buf, err := binreader.ReadExact(r, rtreeRootSize)
	if err != nil {
		return fmt.Errorf("read r-tree root: %w", ErrTruncated)
	}

	var h rtreeHeader
	off := 0
	h.magic, off, _ = binreader.SliceU32(buf, off)
	h.blockSize, off, _ = binreader.SliceU32(buf, off)
	h.itemCount, off, _ = binreader.SliceU64(buf, off)
	h.startChromIx, off, _ = binreader.SliceU32(buf, off)
	h.startBase, off, _ = binreader.SliceU32(buf, off)
	h.endChromIx, off, _ = binreader.SliceU32(buf, off)
	h.endBase, off, _ = binreader.SliceU32(buf, off)
	h.endFileOff, off, _ = binreader.SliceU64(buf, off)
	h.itemsPerSlot, off, _ = binreader.SliceU32(buf, off)
	h.reserved, _, _ = binreader.SliceU32(buf, off)

	if h.magic != rTreeMagic {
		return fmt.Errorf("r-tree root: %w", ErrBadMagic)
	}

	root, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("tell after r-tree root: %w", err)
	}

	for i := range chroms {
		c := &chroms[i]
		if h.itemsPerSlot > 0 {
			c.OffsetList = make([]BlockRef, 0, h.itemsPerSlot)
		}
		if err := walkRTreeNode(r, uint64(root), c); err != nil {
			return err
		}
	}
	return nil
}

// rTreeChildBoxSize is the byte width of one bounding-box prefix
// shared by leaf and internal entries: start-chrom-ix, start-base,
// end-chrom-ix, end-base (u32 each).
const rTreeChildBoxSize = 16

// walkRTreeNode decodes one R-tree node and descends into (leaf) or
// recurses through (internal) every child whose bounding box overlaps
// chrom's full extent.
func walkRTreeNode(r io.ReadSeeker, offset uint64, chrom *Chrom) error {
	if err := binreader.SeekTo(r, int64(offset)); err != nil {
		return fmt.Errorf("seek to r-tree node: %w", err)
	}
	isLeaf, err := binreader.U8(r)
	if err != nil {
		return fmt.Errorf("read r-tree node leaf flag: %w", ErrTruncated)
	}
	if _, err := binreader.U8(r); err != nil { // reserved
		return fmt.Errorf("read r-tree node reserved byte: %w", ErrTruncated)
	}
	childNum, err := binreader.U16(r)
	if err != nil {
		return fmt.Errorf("read r-tree node child count: %w", ErrTruncated)
	}

	if isLeaf != 0 {
		for i := uint16(0); i < childNum; i++ {
			boxBuf, err := binreader.ReadExact(r, rTreeChildBoxSize)
			if err != nil {
				return fmt.Errorf("read r-tree leaf box: %w", ErrTruncated)
			}
			blockOffset, err := binreader.U64(r)
			if err != nil {
				return fmt.Errorf("read r-tree leaf block offset: %w", ErrTruncated)
			}
			blockSize, err := binreader.U64(r)
			if err != nil {
				return fmt.Errorf("read r-tree leaf block size: %w", ErrTruncated)
			}
			box := decodeBoundingBox(boxBuf)
			if chromOverlapsBox(chrom, box) {
				chrom.OffsetList = append(chrom.OffsetList, BlockRef{Offset: blockOffset, Size: blockSize})
			}
		}
		return nil
	}

	type internalChild struct {
		box    boundingBox
		offset uint64
	}
	children := make([]internalChild, childNum)
	for i := uint16(0); i < childNum; i++ {
		boxBuf, err := binreader.ReadExact(r, rTreeChildBoxSize)
		if err != nil {
			return fmt.Errorf("read r-tree internal box: %w", ErrTruncated)
		}
		childOffset, err := binreader.U64(r)
		if err != nil {
			return fmt.Errorf("read r-tree internal child offset: %w", ErrTruncated)
		}
		children[i] = internalChild{box: decodeBoundingBox(boxBuf), offset: childOffset}
	}
	for _, c := range children {
		if chromOverlapsBox(chrom, c.box) {
			if err := walkRTreeNode(r, c.offset, chrom); err != nil {
				return err
			}
		}
	}
	return nil
}

// boundingBox is the (start-chrom-ix, start-base) .. (end-chrom-ix,
// end-base) box carried by every R-tree child entry.
type boundingBox struct {
	startChromIx uint32
	startBase    uint32
	endChromIx   uint32
	endBase      uint32
}

func decodeBoundingBox(b []byte) boundingBox {
	var box boundingBox
	off := 0
	box.startChromIx, off, _ = binreader.SliceU32(b, off)
	box.startBase, off, _ = binreader.SliceU32(b, off)
	box.endChromIx, off, _ = binreader.SliceU32(b, off)
	box.endBase, _, _ = binreader.SliceU32(b, off)
	return box
}

// lexLess reports whether (aChrom, aBase) sorts strictly before
// (bChrom, bBase).
func lexLess(aChrom, aBase, bChrom, bBase uint32) bool {
	if aChrom != bChrom {
		return aChrom < bChrom
	}
	return aBase < bBase
}

// chromOverlapsBox implements spec.md §4.4's overlap test: a
// chromosome with id c and full range [0, size) overlaps box iff
// (c, 0) < (box.end) and (c, size) > (box.start), lexicographically.
func chromOverlapsBox(chrom *Chrom, box boundingBox) bool {
	lowLessThanEnd := lexLess(chrom.ID, 0, box.endChromIx, box.endBase)
	highGreaterThanStart := lexLess(box.startChromIx, box.startBase, chrom.ID, chrom.Size)
	return lowLessThanEnd && highGreaterThanStart
}
