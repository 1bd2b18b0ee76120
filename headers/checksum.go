package headers

// Checksum returns the RFC 1071 internet checksum of the concatenated
// chunks: the ones' complement of the ones' complement sum of 16-bit
// big-endian words. An odd trailing byte is padded with zero.
func Checksum(chunks ...[]byte) uint16 {
	var sum uint64
	var odd bool
	var carry byte
	for _, c := range chunks {
		for _, b := range c {
			if odd {
				sum += uint64(carry)<<8 | uint64(b)
			} else {
				carry = b
			}
			odd = !odd
		}
	}
	if odd {
		sum += uint64(carry) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum)
}

// IPv4PseudoHeader returns the 12-byte pseudo header that UDP and TCP
// checksums cover over IPv4.
func IPv4PseudoHeader(h IPv4Header, length uint16) []byte {
	src, dst := h.Src().As4(), h.Dst().As4()
	return []byte{
		src[0], src[1], src[2], src[3],
		dst[0], dst[1], dst[2], dst[3],
		0, h.Protocol(),
		byte(length >> 8), byte(length),
	}
}
