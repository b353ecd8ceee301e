// Package prs implements the PRS compressor/decompressor used for PSO/PSO2
// game data files: a byte-oriented LZ77-style codec that interleaves literal
// bytes, short back-references and long back-references behind a stream of
// control bits packed LSB-first into dedicated control bytes.
package prs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfRange is the sentinel every failure from this package wraps,
// whether the input is truncated/malformed (decoder) or an encoder would
// have to emit a token outside the wire format's numeric bounds (encoder).
// Callers should use errors.Is(err, prs.ErrOutOfRange) rather than matching
// on message text.
var ErrOutOfRange = errors.New("out of range")

func wrapf(format string, args ...interface{}) error {
	return errors.Wrap(ErrOutOfRange, fmt.Sprintf(format, args...))
}

// Compress encodes src into a PRS token stream. It fails with ErrOutOfRange
// if src is shorter than two bytes, since the wire format's prologue
// requires two verbatim leading bytes.
func Compress(src []byte) ([]byte, error) {
	return compress(src)
}

// Decompress decodes src, which is expected to hold a complete PRS stream,
// into exactly targetSize bytes. If the stream reaches a valid End token
// before targetSize bytes have been produced, the partial output decoded so
// far is returned with a length less than targetSize; callers that require
// an exact-size result should treat that as an error themselves.
//
// Decompress fails with ErrOutOfRange if the stream is truncated or a
// back-reference would read before the start of the output.
func Decompress(src []byte, targetSize int) ([]byte, error) {
	if targetSize < 0 {
		return nil, wrapf("target size %d is negative", targetSize)
	}
	d, err := newDecoder(src, targetSize, false)
	if err != nil {
		return nil, err
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.dst, nil
}

// DecompressSize walks a PRS stream to its End token and returns the total
// number of bytes it would decode to, without materializing them. This is
// useful for formats (like PSO's parameter files) that don't otherwise
// record the decompressed size anywhere the caller can see it.
func DecompressSize(src []byte) (int, error) {
	d, err := newDecoder(src, 0, true)
	if err != nil {
		return 0, err
	}
	if err := d.run(); err != nil {
		return 0, err
	}
	return d.pos, nil
}
