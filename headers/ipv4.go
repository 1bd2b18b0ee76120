package headers

import (
	"net/netip"

	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/view"
)

// IPv4Flags is the 3-bit flags field of an IPv4 header.
var IPv4Flags = layout.NewBuilder("ipv4_flags").
	ByteOrder(layout.BigEndian).
	BitOrder(layout.Bit0IsMsb).
	Policy(layout.ForceZero).
	Width(3).
	Field("DF", 1, 1, layout.Bool, "don't fragment").
	Field("MF", 2, 2, layout.Bool, "more fragments").
	MustBuild()

// IPv4 is the 20-byte header of RFC 791 without options.
var IPv4 = layout.NewBuilder("ipv4").
	ByteOrder(layout.BigEndian).
	BitOrder(layout.Bit0IsMsb).
	Field("Version", 0, 3, layout.U8).
	Field("IHL", 4, 7, layout.U8, "header length in 32-bit words").
	Field("DSCP", 8, 13, layout.U8).
	Field("ECN", 14, 15, layout.U8).
	Field("TotalLength", 16, 31, layout.U16).
	Field("Identification", 32, 47, layout.U16).
	Embed("Flags", 48, 50, IPv4Flags).
	Field("FragmentOffset", 51, 63, layout.Uint(13), "in 8-byte units").
	Field("TTL", 64, 71, layout.U8).
	Field("Protocol", 72, 79, layout.U8).
	Field("Checksum", 80, 95, layout.U16).
	Field("Src", 96, 127, layout.U32).
	Field("Dst", 128, 159, layout.U32).
	MustBuild()

// IP protocol numbers.
const (
	ProtoICMP uint8 = 1
	ProtoTCP  uint8 = 6
	ProtoUDP  uint8 = 17
)

var (
	ipv4Version  = IPv4.MustField("Version")
	ipv4IHL      = IPv4.MustField("IHL")
	ipv4DSCP     = IPv4.MustField("DSCP")
	ipv4ECN      = IPv4.MustField("ECN")
	ipv4Length   = IPv4.MustField("TotalLength")
	ipv4ID       = IPv4.MustField("Identification")
	ipv4Flags    = IPv4.MustField("Flags")
	ipv4FragOff  = IPv4.MustField("FragmentOffset")
	ipv4TTL      = IPv4.MustField("TTL")
	ipv4Protocol = IPv4.MustField("Protocol")
	ipv4Checksum = IPv4.MustField("Checksum")
	ipv4Src      = IPv4.MustField("Src")
	ipv4Dst      = IPv4.MustField("Dst")

	ipv4DF = IPv4Flags.MustField("DF")
	ipv4MF = IPv4Flags.MustField("MF")
)

// IPv4Header is a typed view of an IPv4 header.
type IPv4Header struct {
	view.View
}

// NewIPv4Header views the IPv4 header at byte offset off of buf.
func NewIPv4Header(buf []byte, off uint) (IPv4Header, error) {
	v, err := view.New(IPv4, buf, off)
	return IPv4Header{View: v}, err
}

func (h IPv4Header) Version() uint8 { return uint8(h.Uint(ipv4Version)) }
func (h IPv4Header) SetVersion(x uint8) { h.SetUint(ipv4Version, uint64(x)) }
func (h IPv4Header) IHL() uint8 { return uint8(h.Uint(ipv4IHL)) }
func (h IPv4Header) SetIHL(x uint8) { h.SetUint(ipv4IHL, uint64(x)) }
func (h IPv4Header) DSCP() uint8 { return uint8(h.Uint(ipv4DSCP)) }
func (h IPv4Header) SetDSCP(x uint8) { h.SetUint(ipv4DSCP, uint64(x)) }
func (h IPv4Header) ECN() uint8 { return uint8(h.Uint(ipv4ECN)) }
func (h IPv4Header) SetECN(x uint8) { h.SetUint(ipv4ECN, uint64(x)) }
func (h IPv4Header) TotalLength() uint16 { return uint16(h.Uint(ipv4Length)) }
func (h IPv4Header) SetTotalLength(x uint16) { h.SetUint(ipv4Length, uint64(x)) }
func (h IPv4Header) Identification() uint16 { return uint16(h.Uint(ipv4ID)) }
func (h IPv4Header) SetIdentification(x uint16) { h.SetUint(ipv4ID, uint64(x)) }
func (h IPv4Header) FragmentOffset() uint16 { return uint16(h.Uint(ipv4FragOff)) }
func (h IPv4Header) SetFragmentOffset(x uint16) { h.SetUint(ipv4FragOff, uint64(x)) }
func (h IPv4Header) TTL() uint8 { return uint8(h.Uint(ipv4TTL)) }
func (h IPv4Header) SetTTL(x uint8) { h.SetUint(ipv4TTL, uint64(x)) }
func (h IPv4Header) Protocol() uint8 { return uint8(h.Uint(ipv4Protocol)) }
func (h IPv4Header) SetProtocol(x uint8) { h.SetUint(ipv4Protocol, uint64(x)) }
func (h IPv4Header) Checksum() uint16 { return uint16(h.Uint(ipv4Checksum)) }
func (h IPv4Header) SetChecksum(x uint16) { h.SetUint(ipv4Checksum, uint64(x)) }

// Flags returns the flags sub-view, which starts at bit 48.
func (h IPv4Header) Flags() view.View {
	sub, err := h.Sub(ipv4Flags)
	if err != nil {
		panic(err)
	}
	return sub
}

// DontFragment reports the DF flag.
func (h IPv4Header) DontFragment() bool { return h.Flags().Bool(ipv4DF) }

// SetDontFragment sets the DF flag.
func (h IPv4Header) SetDontFragment(b bool) { h.Flags().SetBool(ipv4DF, b) }

// MoreFragments reports the MF flag.
func (h IPv4Header) MoreFragments() bool { return h.Flags().Bool(ipv4MF) }

// SetMoreFragments sets the MF flag.
func (h IPv4Header) SetMoreFragments(b bool) { h.Flags().SetBool(ipv4MF, b) }

// Src returns the source address.
func (h IPv4Header) Src() netip.Addr { return addr4(h.Uint(ipv4Src)) }

// SetSrc sets the source address. a must be an IPv4 address.
func (h IPv4Header) SetSrc(a netip.Addr) { h.SetUint(ipv4Src, uint64(u32(a))) }

// Dst returns the destination address.
func (h IPv4Header) Dst() netip.Addr { return addr4(h.Uint(ipv4Dst)) }

// SetDst sets the destination address. a must be an IPv4 address.
func (h IPv4Header) SetDst(a netip.Addr) { h.SetUint(ipv4Dst, uint64(u32(a))) }

// HeaderLen returns IHL in bytes.
func (h IPv4Header) HeaderLen() int { return int(h.IHL()) * 4 }

// UpdateChecksum recomputes the header checksum over the 20 header bytes.
func (h IPv4Header) UpdateChecksum() {
	h.SetChecksum(0)
	h.SetChecksum(Checksum(h.Bytes()))
}

// ChecksumValid reports whether the stored checksum matches the header.
func (h IPv4Header) ChecksumValid() bool {
	return Checksum(h.Bytes()) == 0
}

func addr4(x uint64) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)})
}

func u32(a netip.Addr) uint32 {
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
