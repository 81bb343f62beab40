package packet

import "encoding/binary"

// Hello is an mOSPF Hello message body.
type Hello struct {
	Mask          uint32
	HelloInterval uint16
}

// MarshalBinary encodes the Hello body.
func (h *Hello) MarshalBinary() []byte {
	buf := make([]byte, HelloBodyLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Mask)
	binary.BigEndian.PutUint16(buf[4:6], h.HelloInterval)
	binary.BigEndian.PutUint16(buf[6:8], 0) // padding
	return buf
}

// UnmarshalHello decodes a Hello body.
func UnmarshalHello(buf []byte) *Hello {
	return &Hello{
		Mask:          binary.BigEndian.Uint32(buf[0:4]),
		HelloInterval: binary.BigEndian.Uint16(buf[4:6]),
	}
}
