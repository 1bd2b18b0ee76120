package bitfield

import "github.com/wippyai/bitfield/errors"

// Buffer is a byte region that views address in place.
// Bytes must return a slice aliasing the underlying storage, so writes through
// it are visible to every other reader of the same region.
type Buffer interface {
	Bytes(offset uint32, length uint32) ([]byte, error)
	Size() uint32
}

// Bytes adapts a plain byte slice to Buffer.
type Bytes []byte

// Bytes returns b[offset:offset+length] without copying.
func (b Bytes) Bytes(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b)) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, uint32(len(b)))
	}
	return b[offset:end:end], nil
}

// Size returns len(b).
func (b Bytes) Size() uint32 {
	return uint32(len(b))
}
