package bigbed

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/stw09701125/bio-format-bb/internal/binreader"
)

// recordHeaderSize is the byte width of the chrom-id, start, end
// prefix at the front of every packed record.
const recordHeaderSize = 12

// fetchBlock seeks to ref.Offset, reads exactly ref.Size compressed
// bytes and inflates them with the zlib-wrapped deflate codec the
// format specifies. bufferSize pre-sizes the buffer the decompressed
// bytes are collected into (WithBufferSize's hint); it is a capacity
// hint only — the buffer grows past it if the block decompresses to
// more than that many bytes.
func fetchBlock(r io.ReadSeeker, ref BlockRef, bufferSize int) ([]byte, error) {
	if err := binreader.SeekTo(r, int64(ref.Offset)); err != nil {
		return nil, fmt.Errorf("seek to block: %w", err)
	}
	compressed, err := binreader.ReadExact(r, int(ref.Size))
	if err != nil {
		return nil, fmt.Errorf("read block: %w", ErrTruncated)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", ErrInflateFailed)
	}
	defer zr.Close()
	out := bytes.NewBuffer(make([]byte, 0, bufferSize))
	if _, err := out.ReadFrom(zr); err != nil {
		return nil, fmt.Errorf("inflate block: %w", ErrInflateFailed)
	}
	return out.Bytes(), nil
}

// frameNext decodes one record from the front of residual: chrom-id,
// start, end (12 bytes, u32 each), then a NUL-terminated rest-of-line.
// It returns the decoded chrom id, start, end, rest, and the slice of
// residual left after the consumed record (including its NUL).
func frameNext(residual []byte) (chromID, start, end uint32, rest string, remainder []byte, err error) {
	if len(residual) < recordHeaderSize {
		return 0, 0, 0, "", nil, fmt.Errorf("record header: %w", ErrMalformedRecord)
	}
	off := 0
	chromID, off, _ = binreader.SliceU32(residual, off)
	start, off, _ = binreader.SliceU32(residual, off)
	end, off, _ = binreader.SliceU32(residual, off)

	nulAt := bytes.IndexByte(residual[off:], 0)
	if nulAt < 0 {
		return 0, 0, 0, "", nil, fmt.Errorf("rest-of-line NUL terminator: %w", ErrMalformedRecord)
	}
	rest = string(residual[off : off+nulAt])
	remainder = residual[off+nulAt+1:]
	return chromID, start, end, rest, remainder, nil
}
