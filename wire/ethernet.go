// Package wire holds the Ethernet/LLC/IPv4 framing and checksum helpers
// shared by the STP and mOSPF wire formats. It is deliberately built on
// encoding/binary rather than a packet-construction library: both
// protocols here overlay small, fixed-layout, protocol-specific headers
// (802.3 LLC/SNAP for STP, a legacy IPv4-only mOSPF header) that no
// library in the example corpus models — see DESIGN.md.
package wire

import (
	"encoding/binary"
	"net"
)

const (
	// EthernetHeaderLen is the length of a standard (untagged) Ethernet
	// header: dst MAC, src MAC, and a 16-bit length/ethertype field.
	EthernetHeaderLen = 14

	// LLCHeaderLen is the length of an 802.2 LLC/SNAP header used to
	// carry STP BPDUs.
	LLCHeaderLen = 3

	llcDSAPSNAP = 0xAA
	llcSSAPSNAP = 0xAA
	llcCntlSNAP = 0x03

	// EtherTypeIPv4 is the EtherType used for mOSPF's IP-carried frames.
	EtherTypeIPv4 = 0x0800
)

// BridgeGroupAddress is the STP well-known multicast MAC,
// 01:80:C2:00:00:01.
var BridgeGroupAddress = net.HardwareAddr{0x01, 0x80, 0xC2, 0x00, 0x00, 0x01}

// MOSPFMulticastMAC is the Ethernet destination used for mOSPF Hello
// frames, 01:00:5E:00:00:05 (the MAC mapping of 224.0.0.5).
var MOSPFMulticastMAC = net.HardwareAddr{0x01, 0x00, 0x5E, 0x00, 0x00, 0x05}

// EthernetHeader is dst MAC | src MAC | a 16-bit trailer field that is
// either an 802.3 frame length (STP) or an EtherType (mOSPF/IP).
type EthernetHeader struct {
	Dst        net.HardwareAddr
	Src        net.HardwareAddr
	LenOrEType uint16
}

// MarshalBinary encodes the header in its 14-byte wire form.
func (h *EthernetHeader) MarshalBinary() []byte {
	buf := make([]byte, EthernetHeaderLen)
	copy(buf[0:6], h.Dst)
	copy(buf[6:12], h.Src)
	binary.BigEndian.PutUint16(buf[12:14], h.LenOrEType)
	return buf
}

// UnmarshalEthernetHeader decodes the leading 14 bytes of buf.
func UnmarshalEthernetHeader(buf []byte) *EthernetHeader {
	h := &EthernetHeader{
		Dst: make(net.HardwareAddr, 6),
		Src: make(net.HardwareAddr, 6),
	}
	copy(h.Dst, buf[0:6])
	copy(h.Src, buf[6:12])
	h.LenOrEType = binary.BigEndian.Uint16(buf[12:14])
	return h
}

// LLCHeader is the fixed SNAP-mode LLC header STP BPDUs are wrapped in:
// DSAP = SSAP = 0xAA (SNAP), control = 0x03 (unnumbered information).
type LLCHeader struct{}

// MarshalBinary encodes the 3-byte SNAP LLC header.
func (LLCHeader) MarshalBinary() []byte {
	return []byte{llcDSAPSNAP, llcSSAPSNAP, llcCntlSNAP}
}
