package headers

import "github.com/wippyai/bitfield/layout"

// IPv6 is the 40-byte fixed header of RFC 8200. The addresses are 128-bit
// fields read and written as wide values.
var IPv6 = layout.NewBuilder("ipv6").
	ByteOrder(layout.BigEndian).
	BitOrder(layout.Bit0IsMsb).
	Field("Version", 0, 3, layout.U8).
	Field("TrafficClass", 4, 11, layout.U8).
	Field("FlowLabel", 12, 31, layout.Uint(20)).
	Field("PayloadLength", 32, 47, layout.U16).
	Field("NextHeader", 48, 55, layout.U8).
	Field("HopLimit", 56, 63, layout.U8).
	Field("Src", 64, 191, layout.Uint(128)).
	Field("Dst", 192, 319, layout.Uint(128)).
	MustBuild()
