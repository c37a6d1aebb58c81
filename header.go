package bigbed

import (
	"fmt"
	"io"

	"github.com/stw09701125/bio-format-bb/internal/binreader"
)

// BigBedMagic is the sentinel value stored at offset 0 of a
// little-endian BigBed file.
const BigBedMagic uint32 = 0x8789F2EB

// bigWigMagic and hicMagic are recognized by Sniff but not decoded by
// this module; see magic.go.
const (
	bigWigMagic uint32 = 0x888FFC26
	hicMagic    uint32 = 0x00434948
)

// fixedHeaderSize is the byte width of the 64-byte BBI header.
const fixedHeaderSize = 64

// FixedHeader is the twelve-field BBI header at file offset 0.
type FixedHeader struct {
	Magic              uint32
	Version            uint16
	ZoomLevels         uint16
	ChromTreeOffset    uint64
	DataOffset         uint64
	DataIndexOffset    uint64
	FieldCount         uint16
	DefinedFieldCount  uint16
	AutoSQLOffset      uint64
	TotalSummaryOffset uint64
	UncompressBufSize  uint32
	Reserved           uint64
}

// decodeFixedHeader seeks r to offset 0, reads the 64-byte BBI header
// and decodes its twelve fields in declaration order. A magic mismatch
// is reported in the returned FixedHeader (callers compare against
// BigBedMagic themselves) but does not make decodeFixedHeader fail —
// the B+ tree and R-tree roots each carry and validate their own
// magic, per spec.
func decodeFixedHeader(r io.ReadSeeker) (FixedHeader, error) {
	if isEmptySource(r) {
		return FixedHeader{}, ErrEmptySource
	}
	if err := binreader.SeekTo(r, 0); err != nil {
		return FixedHeader{}, fmt.Errorf("seek to header: %w", err)
	}
	buf, err := binreader.ReadExact(r, fixedHeaderSize)
	if err != nil {
		return FixedHeader{}, fmt.Errorf("read fixed header: %w", ErrTruncated)
	}

	var h FixedHeader
	off := 0
	h.Magic, off, _ = binreader.SliceU32(buf, off)
	h.Version, off, _ = binreader.SliceU16(buf, off)
	h.ZoomLevels, off, _ = binreader.SliceU16(buf, off)
	h.ChromTreeOffset, off, _ = binreader.SliceU64(buf, off)
	h.DataOffset, off, _ = binreader.SliceU64(buf, off)
	h.DataIndexOffset, off, _ = binreader.SliceU64(buf, off)
	h.FieldCount, off, _ = binreader.SliceU16(buf, off)
	h.DefinedFieldCount, off, _ = binreader.SliceU16(buf, off)
	h.AutoSQLOffset, off, _ = binreader.SliceU64(buf, off)
	h.TotalSummaryOffset, off, _ = binreader.SliceU64(buf, off)
	h.UncompressBufSize, off, _ = binreader.SliceU32(buf, off)
	h.Reserved, _, _ = binreader.SliceU64(buf, off)

	return h, nil
}

// encodeFixedHeader is the inverse of decodeFixedHeader: it produces
// the 64-byte little-endian image a FixedHeader decoded from, used by
// the round-trip tests and to build header images in test fixtures.
// CopyHeaderBytes does not use it: it copies the header bytes verbatim.
func encodeFixedHeader(h FixedHeader) []byte {
	buf := make([]byte, fixedHeaderSize)
	putU32(buf[0:4], h.Magic)
	putU16(buf[4:6], h.Version)
	putU16(buf[6:8], h.ZoomLevels)
	putU64(buf[8:16], h.ChromTreeOffset)
	putU64(buf[16:24], h.DataOffset)
	putU64(buf[24:32], h.DataIndexOffset)
	putU16(buf[32:34], h.FieldCount)
	putU16(buf[34:36], h.DefinedFieldCount)
	putU64(buf[36:44], h.AutoSQLOffset)
	putU64(buf[44:52], h.TotalSummaryOffset)
	putU32(buf[52:56], h.UncompressBufSize)
	putU64(buf[56:64], h.Reserved)
	return buf
}

func putU16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// isEmptySource reports whether r has no bytes at all, by seeking to
// the end and checking the resulting offset.
func isEmptySource(r io.ReadSeeker) bool {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return false
	}
	_, _ = r.Seek(cur, io.SeekStart)
	return end == 0
}
