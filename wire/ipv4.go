package wire

import "encoding/binary"

const (
	// IPv4HeaderLen is the length of a minimal, option-free IPv4 header.
	IPv4HeaderLen = 20

	// ProtoMOSPF is the IP protocol number mOSPF is carried on.
	ProtoMOSPF = 90

	// DefaultTTL is the TTL new IP packets are stamped with.
	DefaultTTL = 64

	// FlagDF is the "don't fragment" bit of the 16-bit frag_off field.
	FlagDF = 0x4000

	mospfMulticastIP = 0xE0000005 // 224.0.0.5, host order
)

// MOSPFMulticastIP is the link-local "all mOSPF routers" destination,
// 224.0.0.5, in host byte order.
const MOSPFMulticastIP = mospfMulticastIP

// IPv4Header is a minimal, option-free IPv4 header. All fields are held
// in host byte order; MarshalBinary/UnmarshalIPv4Header convert at the
// wire boundary.
type IPv4Header struct {
	TotalLen uint16
	ID       uint16
	FragOff  uint16
	TTL      uint8
	Protocol uint8
	Checksum uint16
	SrcIP    uint32
	DstIP    uint32
}

// MarshalBinary encodes the header, computing the header checksum over
// the freshly-zeroed checksum field.
func (h *IPv4Header) MarshalBinary() []byte {
	buf := make([]byte, IPv4HeaderLen)
	buf[0] = 0x45 // version 4, IHL 5 (no options)
	buf[1] = 0
	binary.BigEndian.PutUint16(buf[2:4], h.TotalLen)
	binary.BigEndian.PutUint16(buf[4:6], h.ID)
	binary.BigEndian.PutUint16(buf[6:8], h.FragOff)
	buf[8] = h.TTL
	buf[9] = h.Protocol
	binary.BigEndian.PutUint16(buf[10:12], 0)
	binary.BigEndian.PutUint32(buf[12:16], h.SrcIP)
	binary.BigEndian.PutUint32(buf[16:20], h.DstIP)

	binary.BigEndian.PutUint16(buf[10:12], Checksum1071(buf))
	return buf
}

// UnmarshalIPv4Header decodes the leading 20 bytes of buf. It does not
// validate IHL/options; this module never emits or expects any.
func UnmarshalIPv4Header(buf []byte) *IPv4Header {
	return &IPv4Header{
		TotalLen: binary.BigEndian.Uint16(buf[2:4]),
		ID:       binary.BigEndian.Uint16(buf[4:6]),
		FragOff:  binary.BigEndian.Uint16(buf[6:8]),
		TTL:      buf[8],
		Protocol: buf[9],
		Checksum: binary.BigEndian.Uint16(buf[10:12]),
		SrcIP:    binary.BigEndian.Uint32(buf[12:16]),
		DstIP:    binary.BigEndian.Uint32(buf[16:20]),
	}
}
