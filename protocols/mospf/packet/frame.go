package packet

import (
	"fmt"
	"net"

	"github.com/WuGodLittleBad/code-for-CI/wire"
)

// mospfPayloadOffset is where the mOSPF header starts within a frame:
// right after the Ethernet and IPv4 headers.
const mospfPayloadOffset = wire.EthernetHeaderLen + wire.IPv4HeaderLen

// BuildFrame assembles a full Ethernet+IP+mOSPF+body frame. srcMAC/srcIP
// and dstMAC/dstIP are filled in by the caller per-destination (the
// templating step SPEC_FULL.md §4.3/§4.4 describe); ipID is the IPv4
// identification field.
func BuildFrame(srcMAC, dstMAC net.HardwareAddr, srcIP, dstIP uint32, ipID uint16, fragOff uint16, h *Header, body []byte) []byte {
	h.Checksum = Checksum(h, body)
	mospf := append(h.MarshalBinary(), body...)

	ip := &wire.IPv4Header{
		TotalLen: uint16(wire.IPv4HeaderLen + len(mospf)),
		ID:       ipID,
		FragOff:  fragOff,
		TTL:      wire.DefaultTTL,
		Protocol: wire.ProtoMOSPF,
		SrcIP:    srcIP,
		DstIP:    dstIP,
	}

	eth := &wire.EthernetHeader{
		Dst:        dstMAC,
		Src:        srcMAC,
		LenOrEType: wire.EtherTypeIPv4,
	}

	frame := make([]byte, 0, wire.EthernetHeaderLen+wire.IPv4HeaderLen+len(mospf))
	frame = append(frame, eth.MarshalBinary()...)
	frame = append(frame, ip.MarshalBinary()...)
	frame = append(frame, mospf...)
	return frame
}

// Split decodes the Ethernet, IPv4, and mOSPF headers out of a received
// frame and returns the mOSPF body bytes (Hello or LSU payload,
// depending on Header.Type).
func Split(frame []byte) (*wire.EthernetHeader, *wire.IPv4Header, *Header, []byte, error) {
	if len(frame) < mospfPayloadOffset+HeaderLen {
		return nil, nil, nil, nil, fmt.Errorf("mospf: frame too short")
	}

	eth := wire.UnmarshalEthernetHeader(frame)
	ip := wire.UnmarshalIPv4Header(frame[wire.EthernetHeaderLen:])
	h, err := UnmarshalHeader(frame[mospfPayloadOffset:])
	if err != nil {
		return nil, nil, nil, nil, err
	}

	body := frame[mospfPayloadOffset+HeaderLen:]
	return eth, ip, h, body, nil
}

// RewriteIPSourceDest patches the saddr/daddr/checksum of an IPv4 header
// embedded in frame, in place, for the per-neighbor templating step.
func RewriteIPSourceDest(frame []byte, srcIP, dstIP uint32) {
	ip := wire.UnmarshalIPv4Header(frame[wire.EthernetHeaderLen:])
	ip.SrcIP = srcIP
	ip.DstIP = dstIP
	copy(frame[wire.EthernetHeaderLen:wire.EthernetHeaderLen+wire.IPv4HeaderLen], ip.MarshalBinary())
}

// RewriteEthernetSource patches the Ethernet source MAC in place.
func RewriteEthernetSource(frame []byte, mac net.HardwareAddr) {
	copy(frame[6:12], mac)
}

// RewriteEthernetDest patches the Ethernet destination MAC in place,
// the step a host Sender takes once SendByARP's address has resolved.
func RewriteEthernetDest(frame []byte, mac net.HardwareAddr) {
	copy(frame[0:6], mac)
}
