// Package packet implements the mOSPF wire formats: the common mOSPF
// header, Hello body, LSU body, and LSA, all carried over IPv4
// (SPEC_FULL.md §6).
package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/WuGodLittleBad/code-for-CI/wire"
)

const (
	Version uint8 = 2

	TypeHello uint8 = 1
	TypeLSU   uint8 = 4

	// HeaderLen is the length of the common mOSPF header.
	HeaderLen = 16

	// HelloBodyLen is the length of a Hello message body.
	HelloBodyLen = 8

	// LSUBodyLen is the length of an LSU body before its LSAs.
	LSUBodyLen = 8

	// LSALen is the length of a single Link-State Advertisement.
	LSALen = 12
)

// Header is the common mOSPF header prepended to every mOSPF message.
// All fields are host byte order in memory.
type Header struct {
	WireVersion uint8 // the version byte as received; ignored on marshal (always Version)
	Type        uint8
	Len         uint16
	RouterID    uint32
	AreaID      uint32
	Checksum    uint16
}

// MarshalBinary encodes the header with the checksum field as given
// (callers compute and set it separately via Checksum, mirroring the
// reference implementation's zero-then-fill sequence).
func (h *Header) MarshalBinary() []byte {
	buf := make([]byte, HeaderLen)
	buf[0] = Version
	buf[1] = h.Type
	binary.BigEndian.PutUint16(buf[2:4], h.Len)
	binary.BigEndian.PutUint32(buf[4:8], h.RouterID)
	binary.BigEndian.PutUint32(buf[8:12], h.AreaID)
	binary.BigEndian.PutUint16(buf[12:14], h.Checksum)
	binary.BigEndian.PutUint16(buf[14:16], 0) // padding
	return buf
}

// UnmarshalHeader decodes the leading 16 bytes of buf.
func UnmarshalHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderLen {
		return nil, fmt.Errorf("mospf: short header: got %d bytes, need %d", len(buf), HeaderLen)
	}
	return &Header{
		WireVersion: buf[0],
		Type:        buf[1],
		Len:         binary.BigEndian.Uint16(buf[2:4]),
		RouterID:    binary.BigEndian.Uint32(buf[4:8]),
		AreaID:      binary.BigEndian.Uint32(buf[8:12]),
		Checksum:    binary.BigEndian.Uint16(buf[12:14]),
	}, nil
}

// Checksum computes the RFC 1071 checksum of an mOSPF message (header +
// body) with the checksum field temporarily zeroed, per SPEC_FULL.md §6.
// The body contribution is bounded by h.Len so trailing Ethernet
// minimum-frame padding past the declared message length, if any, is
// excluded, matching the reference implementation's checksum over
// exactly ntohs(ospf->header.len) bytes.
func Checksum(h *Header, body []byte) uint16 {
	bodyLen := int(h.Len) - HeaderLen
	if bodyLen < 0 {
		bodyLen = 0
	}
	if bodyLen > len(body) {
		bodyLen = len(body)
	}

	saved := h.Checksum
	h.Checksum = 0
	buf := append(h.MarshalBinary(), body[:bodyLen]...)
	h.Checksum = saved
	return wire.Checksum1071(buf)
}
