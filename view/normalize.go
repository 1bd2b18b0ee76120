package view

import (
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
)

// Normalize applies the layout's undefined-bit policy to the bytes under the
// view. Holes inside nested fields follow the nested layout's own policy.
// Field writes never do this on their own; call Normalize before handing the
// bytes on when the policy matters.
func (v View) Normalize() {
	zeros, ones := v.layout.ForcedRanges()
	v.fill(zeros, 0)
	v.fill(ones, ^uint64(0))
}

func (v View) fill(rs []layout.Range, x uint64) {
	for _, r := range rs {
		for at := r.Lo; at < r.Hi; at += bitops.LimbBits {
			n := min(bitops.LimbBits, r.Hi-at)
			v.writeBits(at, n, layout.LittleEndian, x)
		}
	}
}
