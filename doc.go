// Package bitfield declares bit-precise fields over integer storage and byte
// buffers.
//
// A layout names fields by bit range and carries the container's byte order,
// bit numbering and undefined-bit policy. The same layout drives two access
// paths: owned multi-word values, and zero-copy views over borrowed bytes.
//
// # Architecture Overview
//
//	bitfield/           Root package with the Buffer interface views address
//	├── layout/         Field and layout descriptors, builder, struct-tag compiler
//	├── wide/           Fixed-width multi-limb integers and arithmetic
//	├── record/         Owned values bound to a layout (policy, embedding)
//	├── view/           Zero-copy field access over a Buffer
//	├── endian/         Fixed-width big- and little-endian scalars
//	├── headers/        IPv4, IPv6, UDP and TCP header layouts
//	├── guestmem/       Buffers over WebAssembly guest memory (wazero)
//	├── witlayout/      Layouts derived from WIT flags and records
//	├── errors/         Structured error types
//	└── cmd/bitview/    Inspect and edit fields of a hex buffer
//
// # Quick Start
//
// Declare a layout and read it from a packet:
//
//	l := layout.NewBuilder("udp").
//	    ByteOrder(layout.BigEndian).
//	    BitOrder(layout.Bit0IsMsb).
//	    Field("src_port", 0, 15, layout.U16).
//	    Field("dst_port", 16, 31, layout.U16).
//	    Field("length", 32, 47, layout.U16).
//	    Field("checksum", 48, 63, layout.U16).
//	    MustBuild()
//
//	v, err := view.New(l, packet, 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port := v.Uint(l.MustField("dst_port"))
//
// Or keep the value in owned storage:
//
//	r := record.New(l)
//	r.SetUint(l.MustField("length"), 8)
//	wire := r.Bytes()
//
// # Thread Safety
//
// Layouts are immutable after Build and safe for concurrent use. Values,
// records and views are not synchronized. Views alias their buffer: every
// write is immediately visible to other views over the same bytes, and callers
// sharing a buffer across goroutines must synchronize access themselves.
package bitfield
