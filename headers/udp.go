package headers

import (
	"github.com/wippyai/bitfield/endian"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/view"
)

// UDPFields declares the RFC 768 header through struct tags.
type UDPFields struct {
	_        struct{}     `bitfield:"name=udp,width=64,order=big,bitorder=msb"`
	SrcPort  endian.U16BE `bits:"0:15"`
	DstPort  endian.U16BE `bits:"16:31"`
	Length   endian.U16BE `bits:"32:47" desc:"header plus payload in bytes"`
	Checksum endian.U16BE `bits:"48:63"`
}

// UDP is the 8-byte header of RFC 768.
var UDP = layout.MustFor[UDPFields]()

// UDPHeaderLen is the size of a UDP header in bytes.
const UDPHeaderLen = 8

var (
	udpSrc      = UDP.MustField("SrcPort")
	udpDst      = UDP.MustField("DstPort")
	udpLength   = UDP.MustField("Length")
	udpChecksum = UDP.MustField("Checksum")
)

// UDPHeader is a typed view of a UDP header.
type UDPHeader struct {
	view.View
}

// NewUDPHeader views the UDP header at byte offset off of buf.
func NewUDPHeader(buf []byte, off uint) (UDPHeader, error) {
	v, err := view.New(UDP, buf, off)
	return UDPHeader{View: v}, err
}

func (h UDPHeader) SrcPort() uint16 { return uint16(h.Uint(udpSrc)) }
func (h UDPHeader) SetSrcPort(x uint16) { h.SetUint(udpSrc, uint64(x)) }
func (h UDPHeader) DstPort() uint16 { return uint16(h.Uint(udpDst)) }
func (h UDPHeader) SetDstPort(x uint16) { h.SetUint(udpDst, uint64(x)) }
func (h UDPHeader) Length() uint16 { return uint16(h.Uint(udpLength)) }
func (h UDPHeader) SetLength(x uint16) { h.SetUint(udpLength, uint64(x)) }
func (h UDPHeader) Checksum() uint16 { return uint16(h.Uint(udpChecksum)) }
func (h UDPHeader) SetChecksum(x uint16) { h.SetUint(udpChecksum, uint64(x)) }

// Fields copies the header into its struct form.
func (h UDPHeader) Fields() UDPFields {
	return UDPFields{
		SrcPort:  endian.NewBE(h.SrcPort()),
		DstPort:  endian.NewBE(h.DstPort()),
		Length:   endian.NewBE(h.Length()),
		Checksum: endian.NewBE(h.Checksum()),
	}
}

// SetFields writes every field of f.
func (h UDPHeader) SetFields(f UDPFields) {
	h.SetSrcPort(f.SrcPort.Get())
	h.SetDstPort(f.DstPort.Get())
	h.SetLength(f.Length.Get())
	h.SetChecksum(f.Checksum.Get())
}

// UpdateChecksum computes the checksum over the IPv4 pseudo header, this
// header and payload. A computed zero is sent as 0xffff.
func (h UDPHeader) UpdateChecksum(ip IPv4Header, payload []byte) {
	h.SetChecksum(0)
	sum := Checksum(IPv4PseudoHeader(ip, h.Length()), h.Bytes(), payload)
	if sum == 0 {
		sum = 0xffff
	}
	h.SetChecksum(sum)
}
