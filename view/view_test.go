package view

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/record"
	"github.com/wippyai/bitfield/wide"
)

type scheme struct {
	order layout.ByteOrder
	bits  layout.BitOrder
}

func (s scheme) String() string { return fmt.Sprintf("%s/%s", s.order, s.bits) }

var schemes = []scheme{
	{layout.BigEndian, layout.Bit0IsMsb},
	{layout.BigEndian, layout.Bit0IsLsb},
	{layout.LittleEndian, layout.Bit0IsLsb},
	{layout.LittleEndian, layout.Bit0IsMsb},
}

// bitAt reads nominal bit q of buf under the given numbering.
func bitAt(buf []byte, q uint, msb bool) byte {
	if msb {
		return (buf[q/8] >> (7 - q%8)) & 1
	}
	return (buf[q/8] >> (q % 8)) & 1
}

func TestFourSchemes(t *testing.T) {
	want := map[scheme][]byte{
		{layout.BigEndian, layout.Bit0IsMsb}:    {0x0a, 0xbc, 0},
		{layout.BigEndian, layout.Bit0IsLsb}:    {0xa0, 0xbc, 0},
		{layout.LittleEndian, layout.Bit0IsLsb}: {0xc0, 0xab, 0},
		{layout.LittleEndian, layout.Bit0IsMsb}: {0x0c, 0xab, 0},
	}
	for _, s := range schemes {
		t.Run(s.String(), func(t *testing.T) {
			l := layout.NewBuilder("twelve").
				Width(24).
				ByteOrder(s.order).
				BitOrder(s.bits).
				Field("v", 4, 15, layout.Uint(12)).
				MustBuild()
			buf := make([]byte, 3)
			v := MustNew(l, buf, 0)
			v.SetUint(l.MustField("v"), 0xabc)
			require.Equal(t, want[s], buf)
			require.Equal(t, uint64(0xabc), v.Uint(l.MustField("v")))
		})
	}
}

func TestEndianContrast(t *testing.T) {
	build := func(o layout.ByteOrder) *layout.Layout {
		return layout.NewBuilder("contrast").
			ByteOrder(o).
			BitOrder(layout.Bit0IsMsb).
			Field("w", 0, 31, layout.U32).
			Field("h", 32, 55, layout.Uint(24)).
			MustBuild()
	}
	be, le := build(layout.BigEndian), build(layout.LittleEndian)
	bbuf, lbuf := make([]byte, 7), make([]byte, 7)

	bv, lv := MustNew(be, bbuf, 0), MustNew(le, lbuf, 0)
	bv.SetUint(be.MustField("w"), 0x01020304)
	lv.SetUint(le.MustField("w"), 0x01020304)
	bv.SetUint(be.MustField("h"), 0x0a0b0c)
	lv.SetUint(le.MustField("h"), 0x0a0b0c)

	require.Equal(t, []byte{1, 2, 3, 4, 0x0a, 0x0b, 0x0c}, bbuf)
	require.Equal(t, []byte{4, 3, 2, 1, 0x0c, 0x0b, 0x0a}, lbuf)
	require.Equal(t, bv.Uint(be.MustField("w")), lv.Uint(le.MustField("w")))
	require.Equal(t, bv.Uint(be.MustField("h")), lv.Uint(le.MustField("h")))
}

func TestByteOrderOverride(t *testing.T) {
	l := layout.NewBuilder("override").
		ByteOrder(layout.LittleEndian).
		Field("le", 0, 15, layout.U16).
		Field("be", 16, 31, layout.U16BE).
		MustBuild()
	buf := make([]byte, 4)
	v := MustNew(l, buf, 0)
	v.SetUint(l.MustField("le"), 0x1234)
	v.SetUint(l.MustField("be"), 0x1234)
	require.Equal(t, []byte{0x34, 0x12, 0x12, 0x34}, buf)
	require.Equal(t, uint64(0x1234), v.Uint(l.MustField("be")))
}

func TestNativeOrder(t *testing.T) {
	l := layout.NewBuilder("native").Field("v", 0, 15, layout.U16).MustBuild()
	buf := make([]byte, 2)
	MustNew(l, buf, 0).SetUint(l.MustField("v"), 0x1234)
	require.Equal(t, uint16(0x1234), binary.NativeEndian.Uint16(buf))
}

func TestRoundTripAndIsolation(t *testing.T) {
	fz := fuzz.NewWithSeed(20).NilChance(0)
	for _, s := range schemes {
		msb := s.bits == layout.Bit0IsMsb
		for off := uint(0); off < 8; off++ {
			for _, w := range []uint{1, 3, 8, 13, 16, 31, 32, 33, 64} {
				l := layout.NewBuilder("rt").
					Width(off + w + 9).
					ByteOrder(s.order).
					BitOrder(s.bits).
					Field("v", off, off+w-1, layout.Uint(w)).
					MustBuild()
				f := l.MustField("v")

				buf := make([]byte, l.SizeInBytes())
				for i := range buf {
					fz.Fuzz(&buf[i])
				}
				before := append([]byte(nil), buf...)

				var x uint64
				fz.Fuzz(&x)
				x &= bitops.Mask(w)

				v := MustNew(l, buf, 0)
				v.SetUint(f, x)
				require.Equal(t, x, v.Uint(f), "%s off=%d w=%d", s, off, w)

				for q := uint(0); q < uint(len(buf))*8; q++ {
					if q >= off && q < off+w {
						continue
					}
					if bitAt(buf, q, msb) != bitAt(before, q, msb) {
						t.Fatalf("%s off=%d w=%d: bit %d outside the field changed", s, off, w, q)
					}
				}
			}
		}
	}
}

func TestAllZeroAllOnes(t *testing.T) {
	for _, s := range schemes {
		l := layout.NewBuilder("z").ByteOrder(s.order).BitOrder(s.bits).
			Field("v", 3, 42, layout.Uint(40)).MustBuild()
		f := l.MustField("v")
		buf := make([]byte, l.SizeInBytes())
		v := MustNew(l, buf, 0)

		v.SetUint(f, bitops.Mask(40))
		require.Equal(t, bitops.Mask(40), v.Uint(f))
		v.SetUint(f, 0)
		require.Equal(t, uint64(0), v.Uint(f))
		require.Equal(t, make([]byte, len(buf)), buf)
	}
}

func TestWideFields(t *testing.T) {
	fz := fuzz.NewWithSeed(21).NilChance(0)
	for _, s := range schemes {
		l := layout.NewBuilder("wide").ByteOrder(s.order).BitOrder(s.bits).
			Field("v", 5, 104, layout.Uint(100)).
			Field("tail", 105, 111, layout.U8).
			MustBuild()
		f := l.MustField("v")
		buf := make([]byte, l.SizeInBytes())
		v := MustNew(l, buf, 0)
		v.SetUint(l.MustField("tail"), 0x55)

		limbs := make([]uint64, 2)
		fz.Fuzz(&limbs[0])
		fz.Fuzz(&limbs[1])
		x := wide.FromLimbs(100, limbs)
		v.SetWide(f, x)
		require.True(t, v.Wide(f).Equal(x), s.String())
		require.Equal(t, uint64(0x55), v.Uint(l.MustField("tail")), s.String())
	}

	l := layout.NewBuilder("aligned").ByteOrder(layout.BigEndian).BitOrder(layout.Bit0IsMsb).
		Field("addr", 0, 127, layout.Uint(128)).MustBuild()
	buf := make([]byte, 16)
	x := wide.MustParse("0x2001_0db8_0000_0000_0000_ff00_0042_8329", 128)
	MustNew(l, buf, 0).SetWide(l.MustField("addr"), x)
	require.Equal(t, x.BigEndianBytes(), buf)
}

func TestSignRule(t *testing.T) {
	l := layout.NewBuilder("signs").
		Field("narrow", 0, 7, layout.I16).
		Field("exact", 8, 15, layout.I8).
		Field("odd", 16, 27, layout.Int(12)).
		MustBuild()
	buf := make([]byte, l.SizeInBytes())
	v := MustNew(l, buf, 0)
	v.SetInt(l.MustField("narrow"), -1)
	v.SetInt(l.MustField("exact"), -1)
	v.SetInt(l.MustField("odd"), -100)

	require.Equal(t, int64(255), v.Int(l.MustField("narrow")))
	require.Equal(t, int64(-1), v.Int(l.MustField("exact")))
	require.Equal(t, int64(-100), v.Int(l.MustField("odd")))
	require.True(t, v.Wide(l.MustField("odd")).Signed())
}

func TestNonAlignedSubView(t *testing.T) {
	inner := layout.NewBuilder("nibbles").
		ByteOrder(layout.BigEndian).
		BitOrder(layout.Bit0IsMsb).
		Field("hi", 0, 3, layout.U8).
		Field("lo", 4, 7, layout.U8).
		MustBuild()
	outer := layout.NewBuilder("outer").
		ByteOrder(layout.BigEndian).
		BitOrder(layout.Bit0IsMsb).
		Field("pad", 0, 2, layout.U8).
		Embed("in", 3, 10, inner).
		Field("tail", 11, 15, layout.U8).
		MustBuild()

	buf := make([]byte, 2)
	parent := MustNew(outer, buf, 0)
	sub, err := parent.Sub(outer.MustField("in"))
	require.NoError(t, err)
	require.Equal(t, uint(3), sub.Origin())

	sub.SetUint(inner.MustField("hi"), 0xf)
	sub.SetUint(inner.MustField("lo"), 0x9)
	require.Equal(t, []byte{0x1f, 0x20}, buf)
	require.Equal(t, uint64(0xf9), parent.Uint(outer.MustField("in")))
	require.Equal(t, uint64(0), parent.Uint(outer.MustField("pad")))
	require.Equal(t, uint64(0), parent.Uint(outer.MustField("tail")))

	_, err = parent.Sub(outer.MustField("tail"))
	require.Error(t, err)
}

func TestDistantField(t *testing.T) {
	l := layout.NewBuilder("distant").
		Field("head", 0, 7, layout.U8).
		Field("far", 8000, 8007, layout.U8).
		MustBuild()
	require.Equal(t, uint(1001), l.SizeInBytes())

	buf := make([]byte, 1001)
	for i := range buf {
		buf[i] = 0x55
	}
	v := MustNew(l, buf, 0)
	v.SetUint(l.MustField("head"), 0xff)
	v.SetUint(l.MustField("far"), 0xaa)
	require.Equal(t, byte(0xff), buf[0])
	require.Equal(t, byte(0xaa), buf[1000])
	for i := 1; i < 1000; i++ {
		require.Equal(t, byte(0x55), buf[i], "byte %d", i)
	}
}

func TestSizeViolation(t *testing.T) {
	l := layout.NewBuilder("sz").Width(32).Field("a", 0, 7, layout.U8).MustBuild()

	_, err := New(l, make([]byte, 3), 0)
	require.ErrorIs(t, err, errors.ErrSizeViolation)

	_, err = New(l, make([]byte, 8), 5)
	require.ErrorIs(t, err, errors.ErrSizeViolation)

	_, err = New(l, make([]byte, 8), 20)
	require.ErrorIs(t, err, errors.ErrSizeViolation)

	_, err = At(l, make([]byte, 4), 1)
	require.ErrorIs(t, err, errors.ErrSizeViolation)

	_, err = Over(l, bitfield.Bytes(make([]byte, 6)), 3)
	require.ErrorIs(t, err, errors.ErrSizeViolation)

	_, err = New(l, make([]byte, 8), 4)
	require.NoError(t, err)
}

func TestAliasing(t *testing.T) {
	l := layout.NewBuilder("alias").Field("a", 0, 15, layout.U16).MustBuild()
	buf := make([]byte, 4)
	v1 := MustNew(l, buf, 0)
	v2 := MustNew(l, buf, 0)
	v3 := MustNew(l, buf, 2)

	v1.SetUint(l.MustField("a"), 0xbeef)
	require.Equal(t, uint64(0xbeef), v2.Uint(l.MustField("a")))
	require.True(t, v1.Same(v2))
	require.False(t, v1.Same(v3))

	other := make([]byte, 4)
	copy(other, buf)
	v4 := MustNew(l, other, 0)
	require.Equal(t, v1.Uint(l.MustField("a")), v4.Uint(l.MustField("a")))
	require.False(t, v1.Same(v4), "equal content in another buffer is a different view")
}

func TestOverBuffer(t *testing.T) {
	l := layout.NewBuilder("over").ByteOrder(layout.BigEndian).
		Field("v", 0, 31, layout.U32).MustBuild()
	mem := bitfield.Bytes(make([]byte, 16))
	v, err := Over(l, mem, 8)
	require.NoError(t, err)
	v.SetUint(l.MustField("v"), 0xcafebabe)
	require.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe}, []byte(mem[8:12]))
	require.Equal(t, uint(64), v.Origin())
}

func TestNormalize(t *testing.T) {
	build := func(p layout.Policy) *layout.Layout {
		return layout.NewBuilder("norm").Width(16).Policy(p).
			Field("a", 0, 3, layout.U8).
			Field("b", 8, 11, layout.U8).
			MustBuild()
	}

	buf := []byte{0xff, 0xff}
	zero := build(layout.ForceZero)
	v := MustNew(zero, buf, 0)
	v.SetUint(zero.MustField("a"), 0x3)
	require.Equal(t, []byte{0xf3, 0xff}, buf, "field writes leave other bits alone")
	v.Normalize()
	require.Equal(t, []byte{0x03, 0x0f}, buf)

	buf = []byte{0, 0}
	one := build(layout.ForceOne)
	MustNew(one, buf, 0).Normalize()
	require.Equal(t, []byte{0xf0, 0xf0}, buf)

	buf = []byte{0x5a, 0xa5}
	MustNew(build(layout.AnyPreserve), buf, 0).Normalize()
	require.Equal(t, []byte{0x5a, 0xa5}, buf)
}

func TestNormalizeNested(t *testing.T) {
	inner := layout.NewBuilder("flags").Width(8).Policy(layout.ForceOne).
		Field("a", 0, 2, layout.U8).
		Field("b", 4, 6, layout.U8).
		MustBuild()
	outer := layout.NewBuilder("outer").Width(24).Policy(layout.ForceZero).
		Field("x", 0, 7, layout.U8).
		Embed("in", 8, 15, inner).
		MustBuild()

	buf := []byte{0, 0, 0xff}
	MustNew(outer, buf, 0).Normalize()
	require.Equal(t, []byte{0, 0x88, 0}, buf)
}

func TestRecordAndStore(t *testing.T) {
	inner := layout.NewBuilder("flags").Width(8).Policy(layout.ForceZero).
		ByteOrder(layout.BigEndian).
		BitOrder(layout.Bit0IsMsb).
		Field("a", 0, 2, layout.U8).
		Field("b", 4, 6, layout.U8).
		MustBuild()
	l := layout.NewBuilder("pair").
		ByteOrder(layout.BigEndian).
		BitOrder(layout.Bit0IsMsb).
		Field("x", 0, 11, layout.Uint(12)).
		Embed("in", 12, 19, inner).
		Field("y", 20, 31, layout.Uint(12)).
		MustBuild()

	buf := []byte{0xab, 0xcf, 0xf1, 0x23}
	v := MustNew(l, buf, 0)
	r, err := v.Record()
	require.NoError(t, err)
	require.Equal(t, uint64(0xabc), r.Uint(l.MustField("x")))
	require.Equal(t, uint64(0x123), r.Uint(l.MustField("y")))

	emb, err := v.Embedded(l.MustField("in"))
	require.NoError(t, err)
	require.Equal(t, uint64(0xee), emb.Value().Uint64())

	out := make([]byte, 4)
	require.NoError(t, MustNew(l, out, 0).Store(r))
	require.Equal(t, []byte{0xab, 0xce, 0xe1, 0x23}, out)
	require.Equal(t, out, r.Bytes())

	other := layout.NewBuilder("other").Width(32).Field("z", 0, 31, layout.U32).MustBuild()
	require.Error(t, v.Store(record.New(other)))
}

func TestByName(t *testing.T) {
	l := layout.NewBuilder("named").ByteOrder(layout.BigEndian).
		Field("port", 0, 15, layout.U16).
		MustBuild()
	buf := make([]byte, 2)
	v := MustNew(l, buf, 0)
	require.NoError(t, v.Set("port", wide.FromUint64(16, 8080)))
	got, err := v.Get("port")
	require.NoError(t, err)
	require.Equal(t, uint64(8080), got.Uint64())

	_, err = v.Get("missing")
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	require.Equal(t, errors.KindNotFound, e.Kind)
}
