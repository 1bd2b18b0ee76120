package record

import "github.com/wippyai/bitfield/wide"

// Arithmetic treats the whole container as one unsigned integer of the layout
// width. Results wrap modulo 2^width and the policy is re-applied, so
// undefined bits never leak arithmetic carries.

// Add sets r to r+o.
func (r *Record) Add(o *Record) { r.apply(r.value.Add(o.value)) }

// Sub sets r to r-o.
func (r *Record) Sub(o *Record) { r.apply(r.value.Sub(o.value)) }

// Mul sets r to r*o.
func (r *Record) Mul(o *Record) { r.apply(r.value.Mul(o.value)) }

// AddUint64 adds a native scalar.
func (r *Record) AddUint64(x uint64) { r.apply(r.value.AddUint64(x)) }

// SubUint64 subtracts a native scalar.
func (r *Record) SubUint64(x uint64) { r.apply(r.value.SubUint64(x)) }

// Quo sets r to r/o. r is unchanged when o is zero.
func (r *Record) Quo(o *Record) error {
	q, err := r.value.Quo(o.value)
	if err != nil {
		return err
	}
	r.apply(q)
	return nil
}

// Rem sets r to r%o. r is unchanged when o is zero.
func (r *Record) Rem(o *Record) error {
	m, err := r.value.Rem(o.value)
	if err != nil {
		return err
	}
	r.apply(m)
	return nil
}

// And sets r to r&o.
func (r *Record) And(o *Record) { r.apply(r.value.And(o.value)) }

// Or sets r to r|o.
func (r *Record) Or(o *Record) { r.apply(r.value.Or(o.value)) }

// Xor sets r to r^o.
func (r *Record) Xor(o *Record) { r.apply(r.value.Xor(o.value)) }

// Not complements every bit.
func (r *Record) Not() { r.apply(r.value.Not()) }

// Lsh shifts the container left by k bits.
func (r *Record) Lsh(k uint) { r.apply(r.value.Lsh(k)) }

// Rsh shifts the container right by k bits, filling with zeros.
func (r *Record) Rsh(k uint) { r.apply(r.value.Rsh(k)) }

// Cmp compares the containers as unsigned integers.
func (r *Record) Cmp(o *Record) int { return r.value.Cmp(o.value) }

func (r *Record) apply(v wide.Value) {
	r.value = v
	r.normalize()
}
