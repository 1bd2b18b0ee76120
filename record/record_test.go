package record

import (
	stderrors "errors"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/wide"
)

var bitOrders = []layout.BitOrder{layout.Bit0IsLsb, layout.Bit0IsMsb}

func TestFieldRoundTrip(t *testing.T) {
	f := fuzz.NewWithSeed(10).NilChance(0)
	for _, order := range bitOrders {
		for _, w := range []uint{1, 7, 8, 13, 32, 63, 64} {
			l := layout.NewBuilder("rt").
				Width(w + 10).
				BitOrder(order).
				Field("v", 3, 3+w-1, layout.Uint(w)).
				MustBuild()
			fld := l.MustField("v")

			var random uint64
			f.Fuzz(&random)
			for _, x := range []uint64{0, bitops.Mask(w), random & bitops.Mask(w)} {
				r := New(l)
				r.SetUint(fld, x)
				if got := r.Uint(fld); got != x {
					t.Errorf("%s/%d bits: wrote %#x, read %#x", order, w, x, got)
				}
			}
		}
	}
}

func TestWideFieldRoundTrip(t *testing.T) {
	f := fuzz.NewWithSeed(11).NilChance(0)
	for _, order := range bitOrders {
		for _, w := range []uint{65, 100, 128, 200} {
			l := layout.NewBuilder("wide").
				Width(w + 70).
				BitOrder(order).
				Field("v", 5, 5+w-1, layout.Uint(w)).
				MustBuild()
			fld := l.MustField("v")

			limbs := make([]uint64, bitops.LimbCount(w))
			for i := range limbs {
				f.Fuzz(&limbs[i])
			}
			for _, x := range []wide.Value{wide.New(w), wide.Ones(w), wide.FromLimbs(w, limbs)} {
				r := New(l)
				r.SetWide(fld, x)
				if got := r.Wide(fld); !got.Equal(x) {
					t.Errorf("%s/%d bits: wrote %s, read %s", order, w, x.Text(16), got.Text(16))
				}
			}
		}
	}
}

func isolationLayout(order layout.BitOrder) *layout.Layout {
	return layout.NewBuilder("iso").
		Width(140).
		BitOrder(order).
		Field("a", 0, 4, layout.U8).
		Field("b", 5, 17, layout.U32).
		Field("c", 18, 63, layout.U64).
		Field("d", 64, 70, layout.U8).
		Field("e", 71, 135, layout.Uint(65)).
		Field("f", 136, 136, layout.Bool).
		MustBuild()
}

func TestFieldIsolation(t *testing.T) {
	fz := fuzz.NewWithSeed(12).NilChance(0)
	random := func(w uint) wide.Value {
		limbs := make([]uint64, bitops.LimbCount(w))
		for i := range limbs {
			fz.Fuzz(&limbs[i])
		}
		return wide.FromLimbs(w, limbs)
	}

	for _, order := range bitOrders {
		l := isolationLayout(order)
		undefined := l.DefinedMask().Not()

		for _, target := range l.Fields() {
			r := FromValue(l, random(l.Width()))
			before := make(map[string]wide.Value)
			for _, f := range l.Fields() {
				before[f.Name] = r.Wide(f)
			}
			rawUndefined := r.Value().And(undefined)

			r.SetWide(target, random(target.Width))

			for _, f := range l.Fields() {
				if f == target {
					continue
				}
				if got := r.Wide(f); !got.Equal(before[f.Name]) {
					t.Errorf("%s: writing %s changed %s from %s to %s",
						order, target.Name, f.Name, before[f.Name].Text(16), got.Text(16))
				}
			}
			if got := r.Value().And(undefined); !got.Equal(rawUndefined) {
				t.Errorf("%s: writing %s changed undefined bits", order, target.Name)
			}
		}
	}
}

func sparseLayout(p layout.Policy) *layout.Layout {
	return layout.NewBuilder("sparse").
		Width(32).
		Policy(p).
		Field("a", 0, 3, layout.U8).
		Field("b", 8, 11, layout.U8).
		Field("c", 20, 23, layout.U8).
		MustBuild()
}

func TestUndefinedBitPolicies(t *testing.T) {
	const defined = 0x00f00f0f

	zero := sparseLayout(layout.ForceZero)
	r := FromUint64(zero, 0xffffffff)
	require.Equal(t, uint64(defined), r.Value().Uint64())
	r.SetUint(zero.MustField("b"), 0)
	require.Equal(t, uint64(defined&^0xf00), r.Value().Uint64())
	r.SetValue(wide.FromUint64(32, 0xffffffff))
	require.Equal(t, uint64(defined), r.Value().Uint64())

	one := sparseLayout(layout.ForceOne)
	r = FromUint64(one, 0)
	require.Equal(t, uint64(^uint32(defined)), r.Value().Uint64())
	r.SetUint(one.MustField("c"), 0x5)
	require.Equal(t, uint64(^uint32(defined)|0x500000), r.Value().Uint64())

	keep := sparseLayout(layout.AnyPreserve)
	r = FromUint64(keep, 0xa5a5a5a5)
	r.SetUint(keep.MustField("a"), 0)
	r.SetUint(keep.MustField("c"), 0xf)
	require.Equal(t, uint64(0xa5f5a5a0), r.Value().Uint64())
}

func TestPolicyAfterArithmetic(t *testing.T) {
	l := sparseLayout(layout.ForceZero)
	r := FromUint64(l, 0x0f)
	r.AddUint64(1)
	require.Equal(t, uint64(0), r.Value().Uint64(), "carry into an undefined bit must be cleared")

	r = FromUint64(l, 0x0f)
	r.Lsh(4)
	require.Equal(t, uint64(0), r.Value().Uint64())

	one := sparseLayout(layout.ForceOne)
	r = FromUint64(one, 0)
	r.Not()
	require.Equal(t, uint64(0xffffffff), r.Value().Uint64())
	r.And(FromUint64(one, 0))
	require.Equal(t, uint64(^uint32(0x00f00f0f)), r.Value().Uint64())
}

func TestFromInt64Extends(t *testing.T) {
	l := layout.NewBuilder("neg").Width(200).Field("top", 190, 199, layout.Uint(10)).MustBuild()
	r := FromInt64(l, -1)
	require.Equal(t, uint64(0x3ff), r.Uint(l.MustField("top")))

	zero := layout.NewBuilder("negzero").Width(200).Policy(layout.ForceZero).
		Field("top", 190, 199, layout.Uint(10)).MustBuild()
	r = FromInt64(zero, -1)
	require.True(t, r.Value().Equal(zero.DefinedMask()))
}

func TestCrossBoundary(t *testing.T) {
	tests := []struct {
		width  uint
		lo, hi uint
	}{
		{128, 60, 67},
		{72, 60, 71},
		{256, 120, 135},
		{512, 250, 261},
	}
	for _, tt := range tests {
		l := layout.NewBuilder("cross").Width(tt.width).
			Field("x", tt.lo, tt.hi, layout.Uint(tt.hi-tt.lo+1)).MustBuild()
		f := l.MustField("x")
		w := f.Width
		x := uint64(0xa5c3) & bitops.Mask(w)

		r := New(l)
		r.SetUint(f, x)

		limb := tt.lo / 64
		lowBits := 64 - tt.lo%64
		v := r.Value()
		low := v.Limb(int(limb)) >> (tt.lo % 64)
		high := v.Limb(int(limb)+1) & bitops.Mask(w-lowBits)
		manual := low | high<<lowBits

		if manual != x || r.Uint(f) != x {
			t.Errorf("width %d [%d:%d]: manual %#x, Uint %#x, want %#x", tt.width, tt.lo, tt.hi, manual, r.Uint(f), x)
		}
	}
}

func TestSignRule(t *testing.T) {
	l := layout.NewBuilder("signs").
		Field("narrow", 0, 7, layout.I16).
		Field("exact", 8, 15, layout.I8).
		Field("full", 16, 79, layout.I64).
		Field("big", 80, 207, layout.Int(128)).
		MustBuild()

	r := New(l)
	r.SetInt(l.MustField("narrow"), -1)
	r.SetInt(l.MustField("exact"), -1)
	r.SetInt(l.MustField("full"), -5)
	r.SetWide(l.MustField("big"), wide.FromInt64(128, -7))

	require.Equal(t, int64(255), r.Int(l.MustField("narrow")))
	require.Equal(t, int64(-1), r.Int(l.MustField("exact")))
	require.Equal(t, int64(-5), r.Int(l.MustField("full")))

	big := r.Wide(l.MustField("big"))
	require.True(t, big.Signed())
	require.Equal(t, int64(-7), big.BigInt().Int64())
}

func TestTruncationOnWrite(t *testing.T) {
	l := layout.NewBuilder("trunc").Field("n", 0, 3, layout.U8).Field("m", 4, 7, layout.U8).MustBuild()
	r := New(l)
	r.SetUint(l.MustField("n"), 0x1f)
	require.Equal(t, uint64(0xf), r.Uint(l.MustField("n")))
	require.Equal(t, uint64(0), r.Uint(l.MustField("m")))
}

func embeddingLayouts(innerPolicy layout.Policy) (*layout.Layout, *layout.Layout) {
	inner := layout.NewBuilder("flags").
		Width(8).
		Policy(innerPolicy).
		Field("a", 0, 2, layout.U8).
		Field("b", 4, 6, layout.U8).
		MustBuild()
	outer := layout.NewBuilder("outer").
		Field("x", 0, 7, layout.U8).
		Embed("in", 8, 15, inner).
		Field("y", 16, 23, layout.U8).
		MustBuild()
	return inner, outer
}

func TestEmbeddingConsistency(t *testing.T) {
	inner, outer := embeddingLayouts(layout.ForceZero)
	in := outer.MustField("in")

	standalone := FromUint64(inner, 0xff)
	require.Equal(t, uint64(0x77), standalone.Value().Uint64())

	parent := FromUint64(outer, 0x11_88_22)
	require.NoError(t, parent.SetEmbedded(in, standalone))
	require.Equal(t, uint64(0x11_77_22), parent.Value().Uint64(), "holes inside the nested field follow the inner policy")

	got, err := parent.Embedded(in)
	require.NoError(t, err)
	require.True(t, got.Equal(standalone))
	for _, f := range inner.Fields() {
		require.Equal(t, standalone.Uint(f), got.Uint(f), f.Name)
	}
	require.Equal(t, uint64(0x22), parent.Uint(outer.MustField("x")))
	require.Equal(t, uint64(0x11), parent.Uint(outer.MustField("y")))
}

func TestEmbeddedAppliesInnerPolicy(t *testing.T) {
	inner, outer := embeddingLayouts(layout.ForceOne)
	parent := FromUint64(outer, 0)
	got, err := parent.Embedded(outer.MustField("in"))
	require.NoError(t, err)
	require.Equal(t, uint64(0x88), got.Value().Uint64())
	require.Equal(t, inner, got.Layout())
}

func TestEmbeddedWidthMismatch(t *testing.T) {
	inner := layout.NewBuilder("inner12").Width(12).Field("v", 0, 11, layout.Uint(12)).MustBuild()
	outer := layout.NewBuilder("outer").Embed("in", 0, 7, inner).Field("rest", 8, 15, layout.U8).MustBuild()
	in := outer.MustField("in")

	parent := New(outer)
	require.NoError(t, parent.SetEmbedded(in, FromUint64(inner, 0xabc)))
	require.Equal(t, uint64(0xbc), parent.Uint(in))
	require.Equal(t, uint64(0), parent.Uint(outer.MustField("rest")))

	got, err := parent.Embedded(in)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0bc), got.Value().Uint64())
}

func TestEmbeddedErrors(t *testing.T) {
	inner, outer := embeddingLayouts(layout.AnyPreserve)
	r := New(outer)

	_, err := r.Embedded(outer.MustField("x"))
	require.Error(t, err)

	other := layout.NewBuilder("other").Width(8).Field("z", 0, 7, layout.U8).MustBuild()
	err = r.SetEmbedded(outer.MustField("in"), New(other))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errors.KindTypeMismatch, e.Kind)

	require.NoError(t, r.SetEmbedded(outer.MustField("in"), New(inner)))
}

func TestByteOrderOverrideBytes(t *testing.T) {
	l := layout.NewBuilder("mixed").
		ByteOrder(layout.LittleEndian).
		Field("a", 0, 15, layout.U16).
		Field("b", 16, 31, layout.U16BE).
		MustBuild()

	r := New(l)
	r.SetUint(l.MustField("a"), 0x1234)
	r.SetUint(l.MustField("b"), 0xabcd)
	require.Equal(t, []byte{0x34, 0x12, 0xab, 0xcd}, r.Bytes())
	require.Equal(t, uint64(0xabcd), r.Uint(l.MustField("b")))

	back, err := FromBytes(l, r.Bytes())
	require.NoError(t, err)
	require.True(t, back.Equal(r))
}

func TestBytesBigEndianMsb(t *testing.T) {
	l := layout.NewBuilder("be").
		ByteOrder(layout.BigEndian).
		BitOrder(layout.Bit0IsMsb).
		Field("a", 0, 3, layout.U8).
		Field("b", 4, 11, layout.U8).
		MustBuild()

	r := New(l)
	r.SetUint(l.MustField("a"), 0xa)
	r.SetUint(l.MustField("b"), 0xbc)
	require.Equal(t, []byte{0xab, 0xc0}, r.Bytes())

	back, err := FromBytes(l, []byte{0xab, 0xc0, 0xff})
	require.NoError(t, err)
	require.True(t, back.Equal(r))
}

func TestFromBytesSizeViolation(t *testing.T) {
	l := layout.NewBuilder("sz").Width(32).Field("a", 0, 7, layout.U8).MustBuild()
	_, err := FromBytes(l, []byte{1, 2, 3})
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errors.KindSizeViolation, e.Kind)
}

func TestParse(t *testing.T) {
	l := sparseLayout(layout.ForceZero)
	r, err := Parse(l, "0xffff_ffff")
	require.NoError(t, err)
	require.Equal(t, uint64(0x00f00f0f), r.Value().Uint64())

	_, err = Parse(l, "0x1_0000_0000")
	require.ErrorIs(t, err, errors.ErrOverflow)
	_, err = Parse(l, "zz")
	require.ErrorIs(t, err, errors.ErrInvalidFormat)
}

func TestDivision(t *testing.T) {
	l := layout.NewBuilder("div").Width(128).Field("v", 0, 127, layout.Uint(128)).MustBuild()
	r := FromUint64(l, 100)
	require.NoError(t, r.Quo(FromUint64(l, 7)))
	require.Equal(t, uint64(14), r.Value().Uint64())

	require.NoError(t, r.Rem(FromUint64(l, 5)))
	require.Equal(t, uint64(4), r.Value().Uint64())

	err := r.Quo(New(l))
	require.True(t, stderrors.Is(err, errors.ErrDivideByZero))
	require.Equal(t, uint64(4), r.Value().Uint64())
}

func TestByName(t *testing.T) {
	inner, outer := embeddingLayouts(layout.ForceZero)
	r := New(outer)
	require.NoError(t, r.Set("x", wide.FromUint64(8, 0x42)))
	require.NoError(t, r.Set("in", wide.FromUint64(8, 0xff)))

	x, err := r.Get("x")
	require.NoError(t, err)
	require.Equal(t, uint64(0x42), x.Uint64())

	in, err := r.Get("in")
	require.NoError(t, err)
	require.Equal(t, uint64(0x77), in.Uint64())
	require.Equal(t, inner.Width(), in.Bits())

	_, err = r.Get("nope")
	require.Error(t, err)
	require.Error(t, r.Set("nope", wide.New(8)))

	require.Equal(t, "outer{x=66 in=flags{a=7 b=7} y=0}", r.String())
}

func TestCloneIsIndependent(t *testing.T) {
	l := sparseLayout(layout.AnyPreserve)
	r := FromUint64(l, 1)
	c := r.Clone()
	c.SetUint(l.MustField("a"), 9)
	require.Equal(t, uint64(1), r.Uint(l.MustField("a")))
	require.False(t, r.Equal(c))
	require.Equal(t, 1, c.Cmp(r))
}
