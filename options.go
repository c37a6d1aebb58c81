package bigbed

import "log"

// openOptions is the resolved configuration for Open. It is built by
// applying a caller's Option values over sane defaults, the same
// functional-options shape the hivekit teacher in this pack uses for
// its own Open(path, OpenOptions{}) surface.
type openOptions struct {
	bufferSize int
	logger     *log.Logger
}

func defaultOptions() openOptions {
	return openOptions{
		bufferSize: 32 * 1024,
		logger:     log.Default(),
	}
}

// Option configures a call to Open.
type Option func(*openOptions)

// WithBufferSize hints the initial capacity reserved for a block's
// decompressed-bytes buffer (see fetchBlock in block.go). It is a
// performance hint only; the buffer grows past it if a block
// decompresses to more bytes than this.
func WithBufferSize(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithLogger overrides the logger used for the one non-fatal warning
// this core can emit: a cursor-tracked chromosome id that disagrees
// with the chrom-id encoded in a record (spec: mismatch is a warning,
// not an error). The default logs to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
