package bigbed

import "errors"

// Sentinel errors surfaced by the core. Call sites that add detail
// wrap them with fmt.Errorf's %w (ErrEmptySource is returned as is),
// so errors.Is matches through whatever positional detail was added
// (offset, field name).
var (
	// ErrEmptySource is returned when the byte source has no bytes.
	ErrEmptySource = errors.New("bigbed: empty source")
	// ErrTruncated is returned on a short read at any decode stage.
	ErrTruncated = errors.New("bigbed: truncated read")
	// ErrBadMagic is returned when a magic number does not match the
	// expected sentinel at the fixed header, the B+ tree root, or the
	// R-tree root.
	ErrBadMagic = errors.New("bigbed: bad magic")
	// ErrEmptyIndex is returned when the chromosome B+ tree's
	// item-count is zero.
	ErrEmptyIndex = errors.New("bigbed: empty chromosome index")
	// ErrInflateFailed is returned when a data block fails to
	// decompress.
	ErrInflateFailed = errors.New("bigbed: inflate failed")
	// ErrMalformedRecord is returned when a record's NUL terminator
	// is not found before the end of the block.
	ErrMalformedRecord = errors.New("bigbed: malformed record")
)
