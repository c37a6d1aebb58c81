package bigbed

import (
	"errors"
	"io"
)

// Cursor is the transient, mutable state of one record traversal:
// which chromosome it is on, which entry of that chromosome's
// OffsetList it is on, and the residual uncompressed bytes left over
// from the most recently fetched block. A Cursor is created by
// Reader.Cursor and is the only mutable state touched while pulling
// records; it owns its own io.ReadSeeker position and must not be
// shared across goroutines or with another Cursor over the same
// source.
type Cursor struct {
	src    io.ReadSeeker
	opts   openOptions
	chroms ChromList

	chromID     int
	offsetIndex int
	residual    []byte

	done bool
	err  error
}

func newCursor(src io.ReadSeeker, chroms ChromList, opts openOptions) *Cursor {
	return &Cursor{src: src, opts: opts, chroms: chroms}
}

// Next returns the next interval record in chromosome-id order, then
// offset-list order, then packed-block order. It returns (nil, io.EOF)
// once every chromosome's every block has been exhausted. When a block
// fetch or a record decode fails, Next also returns (nil, io.EOF) and
// the failure is available from Err; the cursor is then terminal:
// every subsequent call returns (nil, io.EOF) without touching the
// source again.
func (c *Cursor) Next() (*Record, error) {
	if c.done {
		return nil, io.EOF
	}
	if c.err != nil {
		c.done = true
		return nil, io.EOF
	}

	for {
		if len(c.residual) > 0 {
			rec, err := c.frameFromResidual()
			if err != nil {
				c.fail(err)
				return nil, io.EOF
			}
			return rec, nil
		}

		if c.chromID >= len(c.chroms) {
			c.done = true
			return nil, io.EOF
		}

		chrom := c.chroms[c.chromID]
		if c.offsetIndex == len(chrom.OffsetList) {
			c.chromID++
			c.offsetIndex = 0
			continue
		}

		ref := chrom.OffsetList[c.offsetIndex]
		block, err := fetchBlock(c.src, ref, c.opts.bufferSize)
		if err != nil {
			c.fail(err)
			return nil, io.EOF
		}
		c.residual = block
		c.offsetIndex++
	}
}

func (c *Cursor) frameFromResidual() (*Record, error) {
	chromID, start, end, rest, remainder, err := frameNext(c.residual)
	if err != nil {
		return nil, err
	}
	c.residual = remainder

	chrom := c.chroms[c.chromID]
	if chromID != chrom.ID {
		c.opts.logger.Printf(
			"bigbed: record chrom id %d disagrees with cursor chrom id %d for chromosome %q (non-fatal)",
			chromID, chrom.ID, chrom.Name,
		)
	}
	return &Record{Name: chrom.Name, Start: start, End: end, Rest: rest}, nil
}

func (c *Cursor) fail(err error) {
	c.err = err
	c.done = true
}

// Err returns the first error encountered by the cursor, if any, or
// nil if the cursor ran to completion (or has not yet run) without
// error. Once Err is non-nil, every Next call returns (nil, io.EOF).
func (c *Cursor) Err() error {
	if c.err != nil && !errors.Is(c.err, io.EOF) {
		return c.err
	}
	return nil
}
