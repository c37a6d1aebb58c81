package bigbed

import (
	"fmt"
	"io"

	"github.com/stw09701125/bio-format-bb/internal/binreader"
)

// CopyHeaderBytes copies the 64-byte fixed header verbatim from r to
// w, restoring r's prior seek position afterward. It is a pass-through
// primitive, not a BigBed authoring API (spec.md §4.9): it moves the
// header's bytes without decoding them, the way the original tool's
// read-then-write path re-emits a header it does not otherwise touch.
func CopyHeaderBytes(r io.ReadSeeker, w io.Writer) error {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("tell source: %w", err)
	}
	defer r.Seek(start, io.SeekStart)

	if err := binreader.SeekTo(r, 0); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	buf, err := binreader.ReadExact(r, fixedHeaderSize)
	if err != nil {
		return fmt.Errorf("read fixed header: %w", ErrTruncated)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write fixed header: %w", err)
	}
	return nil
}
