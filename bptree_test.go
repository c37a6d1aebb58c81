package bigbed

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bptreeLeafFixture builds a single-node (leaf-root) B+ tree at
// offset 0 of the returned buffer: root header, then one leaf node
// holding entries in the given order (which need not be id order).
func bptreeLeafFixture(keySize uint32, entries []struct {
	name string
	id   uint32
	size uint32
}) []byte {
	var buf bytes.Buffer
	valSize := uint32(8) // id(4) + size(4)

	put32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	put64 := func(v uint64) { binary.Write(&buf, binary.LittleEndian, v) }

	put32(bPlusTreeMagic)
	put32(1) // blockSize
	put32(keySize)
	put32(valSize)
	put64(uint64(len(entries)))
	put64(0) // reserved

	buf.WriteByte(1) // isLeaf
	buf.WriteByte(0) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		key := make([]byte, keySize)
		copy(key, e.name)
		buf.Write(key)
		put32(e.id)
		put32(e.size)
	}
	return buf.Bytes()
}

func TestReadChromTreeIdIndexedPlacement(t *testing.T) {
	entries := []struct {
		name string
		id   uint32
		size uint32
	}{
		{"chr2", 1, 2000},
		{"chr1", 0, 1000},
		{"chr3", 2, 3000},
	}
	buf := bptreeLeafFixture(8, entries)

	chroms, err := readChromTree(bytes.NewReader(buf), 0)
	require.NoError(t, err)
	require.Len(t, chroms, 3)

	assert.Equal(t, "chr1", chroms[0].Name)
	assert.EqualValues(t, 0, chroms[0].ID)
	assert.EqualValues(t, 1000, chroms[0].Size)

	assert.Equal(t, "chr2", chroms[1].Name)
	assert.EqualValues(t, 1, chroms[1].ID)

	assert.Equal(t, "chr3", chroms[2].Name)
	assert.EqualValues(t, 2, chroms[2].ID)
}

func TestReadChromTreeBadMagic(t *testing.T) {
	buf := bptreeLeafFixture(8, []struct {
		name string
		id   uint32
		size uint32
	}{{"chr1", 0, 100}})
	buf[0] = 0xff

	_, err := readChromTree(bytes.NewReader(buf), 0)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadChromTreeEmptyIndex(t *testing.T) {
	buf := bptreeLeafFixture(8, nil)

	_, err := readChromTree(bytes.NewReader(buf), 0)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestTrimNulPadding(t *testing.T) {
	assert.Equal(t, "chr1", trimNulPadding([]byte("chr1\x00\x00\x00\x00")))
	assert.Equal(t, "", trimNulPadding([]byte("\x00\x00\x00\x00")))
}

type bpEntry struct {
	name string
	id   uint32
	size uint32
}

// bptreeTwoLevelFixture builds a two-level B+ tree at offset 0: a
// root header, an internal node with one child pointer per leaf
// group, and the leaf groups themselves laid out after it — so
// readChromTree must follow walkBPlusNode's internal-child recursion
// rather than treating the root's node as a leaf.
func bptreeTwoLevelFixture(keySize uint32, groups ...[]bpEntry) []byte {
	var buf bytes.Buffer
	put32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	put64 := func(v uint64) { binary.Write(&buf, binary.LittleEndian, v) }

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	valSize := uint32(8)

	put32(bPlusTreeMagic)
	put32(1)
	put32(keySize)
	put32(valSize)
	put64(uint64(total))
	put64(0)

	internalNodeSize := 4 + len(groups)*(int(keySize)+8)
	leafOffset := bptreeRootSize + internalNodeSize
	leafOffsets := make([]int, len(groups))
	for i, g := range groups {
		leafOffsets[i] = leafOffset
		leafOffset += 4 + len(g)*(int(keySize)+8)
	}

	buf.WriteByte(0) // isLeaf
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, uint16(len(groups)))
	for i, g := range groups {
		key := make([]byte, keySize)
		if len(g) > 0 {
			copy(key, g[0].name)
		}
		buf.Write(key)
		put64(uint64(leafOffsets[i]))
	}

	for _, g := range groups {
		buf.WriteByte(1)
		buf.WriteByte(0)
		binary.Write(&buf, binary.LittleEndian, uint16(len(g)))
		for _, e := range g {
			key := make([]byte, keySize)
			copy(key, e.name)
			buf.Write(key)
			put32(e.id)
			put32(e.size)
		}
	}
	return buf.Bytes()
}

func TestReadChromTreeInternalNodeRecursion(t *testing.T) {
	group1 := []bpEntry{{"chr1", 0, 1000}, {"chr2", 1, 2000}}
	group2 := []bpEntry{{"chr3", 2, 3000}, {"chr4", 3, 4000}}
	buf := bptreeTwoLevelFixture(8, group1, group2)

	chroms, err := readChromTree(bytes.NewReader(buf), 0)
	require.NoError(t, err)
	require.Len(t, chroms, 4)

	assert.Equal(t, "chr1", chroms[0].Name)
	assert.Equal(t, "chr2", chroms[1].Name)
	assert.Equal(t, "chr3", chroms[2].Name)
	assert.EqualValues(t, 3000, chroms[2].Size)
	assert.Equal(t, "chr4", chroms[3].Name)
	assert.EqualValues(t, 4000, chroms[3].Size)
}
