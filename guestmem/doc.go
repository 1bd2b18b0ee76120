// Package guestmem lets views address WebAssembly linear memory in place.
//
// # Memory
//
// Wrap adapts a wazero api.Memory to bitfield.Buffer:
//
//	mem := guestmem.Wrap(mod.ExportedMemory("memory"))
//	hdr, err := mem.View(headers.IPv4, ptr)
//
// Writes through the view land directly in guest memory. A view holds a slice
// of the current memory backing, so it must be rebuilt after the guest grows
// its memory.
//
// # Allocator
//
// WrapAllocator calls the guest's cabi_realloc export to reserve a region
// sized for a layout and returns a view over it.
package guestmem
