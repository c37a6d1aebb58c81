package bigbed

// BlockRef points to one compressed data block in the payload region:
// an absolute file offset and its compressed size in bytes.
type BlockRef struct {
	Offset uint64
	Size   uint64
}

// Chrom is one chromosome's directory entry: its name, its dense id
// (equal to its index in the enclosing ChromList), its length in
// bases, and the ordered list of data blocks the R-tree walk found
// overlapping its full extent.
type Chrom struct {
	Name       string
	ID         uint32
	Size       uint32
	OffsetList []BlockRef
}

// ChromList is a dense, id-indexed sequence of chromosomes: for every
// i in [0, len(ChromList)), ChromList[i].ID == uint32(i).
type ChromList []Chrom
