package guestmem

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/view"
)

// Memory adapts wazero api.Memory to bitfield.Buffer.
type Memory struct {
	Mem api.Memory
}

// Wrap returns a Buffer over mem, or nil when mem is nil.
func Wrap(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

// Bytes returns the guest bytes [offset, offset+length) without copying.
func (m *Memory) Bytes(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, m.Mem.Size())
	}
	return data, nil
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.Mem.Size()
}

// View returns a view of l at byte offset ptr of guest memory.
func (m *Memory) View(l *layout.Layout, ptr uint32) (view.View, error) {
	return view.Over(l, m, ptr)
}

// Allocator reserves guest memory through a cabi_realloc style export.
type Allocator struct {
	Mem *Memory
	Fn  api.Function
}

// WrapAllocator returns an allocator calling fn, or nil when fn is nil.
func WrapAllocator(mem *Memory, fn api.Function) *Allocator {
	if mem == nil || fn == nil {
		return nil
	}
	return &Allocator{Mem: mem, Fn: fn}
}

// Alloc reserves size bytes aligned to align and returns the guest pointer.
func (a *Allocator) Alloc(ctx context.Context, size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseMemory, errors.KindAllocFailed, err, "cabi_realloc trapped")
	}
	if len(results) == 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocFailed).
			Detail("allocation returned no result").
			Build()
	}
	return uint32(results[0]), nil
}

// New reserves a zeroed region sized for l and returns a view over it.
func (a *Allocator) New(ctx context.Context, l *layout.Layout) (view.View, error) {
	if l == nil {
		return view.View{}, errors.NilPointer(errors.PhaseMemory, nil, "layout")
	}
	size := uint32(l.SizeInBytes())
	ptr, err := a.Alloc(ctx, size, alignFor(size))
	if err != nil {
		return view.View{}, err
	}
	v, err := a.Mem.View(l, ptr)
	if err != nil {
		return view.View{}, err
	}
	clear(v.Bytes())
	return v, nil
}

// Free returns a region to the guest allocator.
func (a *Allocator) Free(ctx context.Context, ptr, size, align uint32) {
	_, _ = a.Fn.Call(ctx, uint64(ptr), uint64(size), uint64(align), 0)
}

func alignFor(size uint32) uint32 {
	switch {
	case size >= 8:
		return 8
	case size >= 4:
		return 4
	case size >= 2:
		return 2
	}
	return 1
}
