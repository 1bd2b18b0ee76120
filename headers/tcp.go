package headers

import "github.com/wippyai/bitfield/layout"

// TCPFlagBits declares the nine control bits (RFC 793, RFC 3168) that follow
// the data offset. They start at bit 103, so their sub-view begins at bit 7
// of byte 12.
type TCPFlagBits struct {
	_   struct{} `bitfield:"name=tcp_flags,width=9,order=big,bitorder=msb"`
	NS  bool     `bits:"0"`
	CWR bool     `bits:"1"`
	ECE bool     `bits:"2"`
	URG bool     `bits:"3"`
	ACK bool     `bits:"4"`
	PSH bool     `bits:"5"`
	RST bool     `bits:"6"`
	SYN bool     `bits:"7"`
	FIN bool     `bits:"8"`
}

// TCPFlags is the nested layout of the control bits.
var TCPFlags = layout.MustFor[TCPFlagBits]()

// TCP is the 20-byte header of RFC 793 without options.
var TCP = layout.NewBuilder("tcp").
	ByteOrder(layout.BigEndian).
	BitOrder(layout.Bit0IsMsb).
	Field("SrcPort", 0, 15, layout.U16).
	Field("DstPort", 16, 31, layout.U16).
	Field("Seq", 32, 63, layout.U32).
	Field("Ack", 64, 95, layout.U32).
	Field("DataOffset", 96, 99, layout.U8, "header length in 32-bit words").
	Field("Reserved", 100, 102, layout.U8).
	Embed("Flags", 103, 111, TCPFlags).
	Field("Window", 112, 127, layout.U16).
	Field("Checksum", 128, 143, layout.U16).
	Field("Urgent", 144, 159, layout.U16).
	MustBuild()
