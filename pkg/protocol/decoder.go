package protocol

import (
	"errors"
	"io"
)

// Allocation limits guard against malicious length prefixes.
const (
	// DefaultMaxString is the default maximum string length (1MB).
	DefaultMaxString = 1 << 20

	// DefaultMaxMutations is the default maximum number of mutations in
	// one frame.
	DefaultMaxMutations = 100_000

	// maxVarintLen is the longest varint encoding of a uint64.
	maxVarintLen = 10
)

// Common decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
)

// Limits bounds what a Decoder may allocate.
type Limits struct {
	MaxString    int
	MaxMutations int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() Limits {
	return Limits{MaxString: DefaultMaxString, MaxMutations: DefaultMaxMutations}
}

// Decoder reads binary data from a byte slice.
type Decoder struct {
	buf    []byte
	pos    int
	limits Limits
}

// NewDecoder creates a decoder over buf with the default limits.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, limits: DefaultLimits()}
}

// WithLimits replaces the decoder's limits. Zero fields keep the defaults.
func (d *Decoder) WithLimits(l Limits) *Decoder {
	if l.MaxString > 0 {
		d.limits.MaxString = l.MaxString
	}
	if l.MaxMutations > 0 {
		d.limits.MaxMutations = l.MaxMutations
	}
	return d
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; ; i++ {
		if i >= maxVarintLen {
			return 0, ErrVarintOverflow
		}
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
	}
}

// ReadString reads a length-prefixed string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.limits.MaxString) {
		return "", ErrAllocationTooLarge
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// readCount reads a collection count. Each item takes at least minItem
// bytes, so counts larger than the remaining input are rejected before
// anything is allocated.
func (d *Decoder) readCount(max, minItem int) (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > uint64(max) {
		return 0, ErrCollectionTooLarge
	}
	if count*uint64(minItem) > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}
