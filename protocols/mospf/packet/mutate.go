package packet

import (
	"encoding/binary"

	"github.com/WuGodLittleBad/code-for-CI/wire"
)

// DecrementTTLs decrements both the LSU's own ttl field and the carrier
// IP header's ttl by exactly one, in place, and recomputes both
// checksums. Used by the flood-forward path (SPEC_FULL.md §4.4, step 4).
func DecrementTTLs(frame []byte) {
	ipOff := wire.EthernetHeaderLen
	mospfOff := mospfPayloadOffset
	lsuOff := mospfOff + HeaderLen

	frame[ipOff+8]--                                   // IP ttl
	lsuTTL := binary.BigEndian.Uint16(frame[lsuOff+2 : lsuOff+4])
	binary.BigEndian.PutUint16(frame[lsuOff+2:lsuOff+4], lsuTTL-1)

	RecomputeMOSPFChecksum(frame)
	RecomputeIPChecksum(frame)
}

// RecomputeMOSPFChecksum zeroes and recomputes the mOSPF checksum field
// of a frame in place, over the header + remainder of the frame.
func RecomputeMOSPFChecksum(frame []byte) {
	mospfOff := mospfPayloadOffset
	binary.BigEndian.PutUint16(frame[mospfOff+12:mospfOff+14], 0)
	sum := wire.Checksum1071(frame[mospfOff:])
	binary.BigEndian.PutUint16(frame[mospfOff+12:mospfOff+14], sum)
}

// RecomputeIPChecksum zeroes and recomputes the IPv4 header checksum of
// a frame in place.
func RecomputeIPChecksum(frame []byte) {
	ipOff := wire.EthernetHeaderLen
	binary.BigEndian.PutUint16(frame[ipOff+10:ipOff+12], 0)
	sum := wire.Checksum1071(frame[ipOff : ipOff+wire.IPv4HeaderLen])
	binary.BigEndian.PutUint16(frame[ipOff+10:ipOff+12], sum)
}
