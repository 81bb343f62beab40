package packet

import "encoding/binary"

// LSA is a single Link-State Advertisement: a subnet/mask pair and the
// neighboring router that owns it, or RID 0 for a stub network with no
// neighbor (SPEC_FULL.md §3).
type LSA struct {
	Subnet uint32
	Mask   uint32
	RID    uint32
}

// MarshalBinary encodes one LSA.
func (l *LSA) MarshalBinary() []byte {
	buf := make([]byte, LSALen)
	binary.BigEndian.PutUint32(buf[0:4], l.Subnet)
	binary.BigEndian.PutUint32(buf[4:8], l.Mask)
	binary.BigEndian.PutUint32(buf[8:12], l.RID)
	return buf
}

// UnmarshalLSA decodes a single LSA.
func UnmarshalLSA(buf []byte) *LSA {
	return &LSA{
		Subnet: binary.BigEndian.Uint32(buf[0:4]),
		Mask:   binary.BigEndian.Uint32(buf[4:8]),
		RID:    binary.BigEndian.Uint32(buf[8:12]),
	}
}

// LSU is an mOSPF Link-State Update body: its own sequence/ttl/count
// header plus nadv LSAs.
type LSU struct {
	Seq  uint16
	TTL  uint16
	LSAs []LSA
}

// MarshalBinary encodes the LSU body (seq, ttl, nadv) followed by each
// LSA in order.
func (l *LSU) MarshalBinary() []byte {
	buf := make([]byte, LSUBodyLen+LSALen*len(l.LSAs))
	binary.BigEndian.PutUint16(buf[0:2], l.Seq)
	binary.BigEndian.PutUint16(buf[2:4], l.TTL)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(l.LSAs)))

	off := LSUBodyLen
	for i := range l.LSAs {
		copy(buf[off:off+LSALen], l.LSAs[i].MarshalBinary())
		off += LSALen
	}
	return buf
}

// UnmarshalLSU decodes an LSU body out of buf, which must hold at least
// the LSUBodyLen-byte seq/ttl/nadv header (Instance.HandlePacket drops
// shorter bodies before calling it). nadv is bounded by what buf
// actually holds rather than trusted outright, so a frame truncated
// inside its LSA array (but checksum-valid) decodes to a short LSU
// instead of panicking (SPEC_FULL.md §7, "drop, don't crash").
func UnmarshalLSU(buf []byte) *LSU {
	seq := binary.BigEndian.Uint16(buf[0:2])
	ttl := binary.BigEndian.Uint16(buf[2:4])
	nadv := binary.BigEndian.Uint32(buf[4:8])

	avail := 0
	if len(buf) > LSUBodyLen {
		avail = (len(buf) - LSUBodyLen) / LSALen
	}
	n := int(nadv)
	if n > avail {
		n = avail
	}

	lsas := make([]LSA, n)
	off := LSUBodyLen
	for i := 0; i < n; i++ {
		lsas[i] = *UnmarshalLSA(buf[off : off+LSALen])
		off += LSALen
	}

	return &LSU{Seq: seq, TTL: ttl, LSAs: lsas}
}
