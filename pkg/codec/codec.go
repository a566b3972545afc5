// Package codec streams uncompressed bytes through a running CRC32
// accumulator and either a DEFLATE compressor or a STORED (identity)
// pass-through, tracking uncompressed and compressed byte totals as it goes.
package codec

import (
	"bytes"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/flate"

	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
)

// Method is the ZIP32 compression method understood by this package.
type Method uint16

const (
	Stored   Method = consts.MethodStored
	Deflated Method = consts.MethodDeflated
)

// Coder streams uncompressed input through CRC32 accumulation and
// compression, accumulating the sizes the central-directory record needs.
type Coder struct {
	method   Method
	level    int
	crc      uint32
	uncSize  uint64
	compSize uint64
	out      bytes.Buffer
	flateW   *flate.Writer
	finished bool
}

// New creates a Coder for the given method. level is only meaningful for
// Deflated; any level outside [1,9] (including 0) is replaced with
// consts.DefaultCompressionLevel.
func New(method Method, level int) (*Coder, error) {
	c := &Coder{method: method, level: level}
	if method == Deflated {
		if level < 1 || level > 9 {
			level = consts.DefaultCompressionLevel
		}
		c.level = level
		fw, err := flate.NewWriter(&c.out, level)
		if err != nil {
			return nil, zerrors.Wrap(zerrors.KindCompression, "failed to initialize deflate writer", err)
		}
		c.flateW = fw
	}
	return c, nil
}

// Update feeds a chunk of uncompressed bytes through the coder, returning any
// compressed bytes ready to be written out. update is the identity operation
// for Stored.
func (c *Coder) Update(p []byte) ([]byte, error) {
	if c.finished {
		return nil, zerrors.New(zerrors.KindCompression, "update called after finish")
	}
	c.crc = crc32.Update(c.crc, crc32.IEEETable, p)
	c.uncSize += uint64(len(p))

	switch c.method {
	case Stored:
		c.compSize += uint64(len(p))
		return p, nil
	case Deflated:
		c.out.Reset()
		if _, err := c.flateW.Write(p); err != nil {
			return nil, zerrors.Wrap(zerrors.KindCompression, "deflate write failed", err)
		}
		if err := c.flateW.Flush(); err != nil {
			return nil, zerrors.Wrap(zerrors.KindCompression, "deflate flush failed", err)
		}
		chunk := append([]byte(nil), c.out.Bytes()...)
		c.compSize += uint64(len(chunk))
		return chunk, nil
	default:
		return nil, zerrors.New(zerrors.KindCompression, fmt.Sprintf("unknown compression method %d", c.method))
	}
}

// Finish flushes any trailing compressed bytes and locks the coder against
// further Update calls.
func (c *Coder) Finish() ([]byte, error) {
	if c.finished {
		return nil, nil
	}
	c.finished = true

	if c.method != Deflated {
		return nil, nil
	}

	c.out.Reset()
	if err := c.flateW.Close(); err != nil {
		return nil, zerrors.Wrap(zerrors.KindCompression, "deflate close failed", err)
	}
	tail := append([]byte(nil), c.out.Bytes()...)
	c.compSize += uint64(len(tail))
	return tail, nil
}

// CRC32 returns the running CRC32 over all uncompressed bytes seen so far.
func (c *Coder) CRC32() uint32 { return c.crc }

// UncompressedSize returns the running total of uncompressed bytes seen.
func (c *Coder) UncompressedSize() uint64 { return c.uncSize }

// CompressedSize returns the running total of compressed bytes emitted.
func (c *Coder) CompressedSize() uint64 { return c.compSize }

// Level returns the configured compression level (meaningless for Stored).
func (c *Coder) Level() int { return c.level }
