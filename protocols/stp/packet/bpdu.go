// Package packet implements the STP config BPDU wire format: Ethernet +
// LLC/SNAP framing with no IP carrier, per SPEC_FULL.md §6.
package packet

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/WuGodLittleBad/code-for-CI/wire"
)

const (
	ProtocolID      uint16 = 0x0000
	ProtocolVersion uint8  = 0x00

	TypeConfig uint8 = 0x00
	TypeTCN    uint8 = 0x80

	// HeaderLen is the encoded length of a Config BPDU.
	HeaderLen = 35
)

// Config is a Spanning Tree Configuration BPDU. All fields are held in
// host byte order; MarshalBinary/Unmarshal convert at the wire boundary.
type Config struct {
	Flags        uint8
	RootID       uint64
	RootPathCost uint32
	SwitchID     uint64
	PortID       uint16
	MsgAge       uint16
	MaxAge       uint16
	HelloTime    uint16
	ForwardDelay uint16
}

// MarshalBinary encodes the BPDU body (proto_id through fwd_delay).
func (c *Config) MarshalBinary() []byte {
	buf := make([]byte, HeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], ProtocolID)
	buf[2] = ProtocolVersion
	buf[3] = TypeConfig
	buf[4] = c.Flags
	binary.BigEndian.PutUint64(buf[5:13], c.RootID)
	binary.BigEndian.PutUint32(buf[13:17], c.RootPathCost)
	binary.BigEndian.PutUint64(buf[17:25], c.SwitchID)
	binary.BigEndian.PutUint16(buf[25:27], c.PortID)
	binary.BigEndian.PutUint16(buf[27:29], c.MsgAge)
	binary.BigEndian.PutUint16(buf[29:31], c.MaxAge)
	binary.BigEndian.PutUint16(buf[31:33], c.HelloTime)
	binary.BigEndian.PutUint16(buf[33:35], c.ForwardDelay)
	return buf
}

// Unmarshal decodes a Config BPDU body. The caller is expected to have
// already checked MsgType == TypeConfig.
func Unmarshal(buf []byte) (*Config, error) {
	if len(buf) < HeaderLen {
		return nil, fmt.Errorf("stp: short BPDU: got %d bytes, need %d", len(buf), HeaderLen)
	}

	return &Config{
		Flags:        buf[4],
		RootID:       binary.BigEndian.Uint64(buf[5:13]),
		RootPathCost: binary.BigEndian.Uint32(buf[13:17]),
		SwitchID:     binary.BigEndian.Uint64(buf[17:25]),
		PortID:       binary.BigEndian.Uint16(buf[25:27]),
		MsgAge:       binary.BigEndian.Uint16(buf[27:29]),
		MaxAge:       binary.BigEndian.Uint16(buf[29:31]),
		HelloTime:    binary.BigEndian.Uint16(buf[31:33]),
		ForwardDelay: binary.BigEndian.Uint16(buf[33:35]),
	}, nil
}

// MsgType reads the message-type octet out of a raw frame's BPDU
// payload, without fully decoding it, so the caller can dispatch.
func MsgType(bpdu []byte) (uint8, error) {
	if len(bpdu) < 4 {
		return 0, fmt.Errorf("stp: BPDU too short to classify")
	}
	return bpdu[3], nil
}

// Frame builds a full Ethernet+LLC+Config BPDU frame ready to send out
// srcMAC. ether_type carries the 802.3 length of (LLC + BPDU), per spec.
func Frame(srcMAC net.HardwareAddr, c *Config) []byte {
	body := c.MarshalBinary()
	llc := wire.LLCHeader{}.MarshalBinary()

	eth := &wire.EthernetHeader{
		Dst:        wire.BridgeGroupAddress,
		Src:        srcMAC,
		LenOrEType: uint16(len(llc) + len(body)),
	}

	frame := make([]byte, 0, wire.EthernetHeaderLen+len(llc)+len(body))
	frame = append(frame, eth.MarshalBinary()...)
	frame = append(frame, llc...)
	frame = append(frame, body...)
	return frame
}

// ExtractBPDU strips the Ethernet+LLC framing off a received frame,
// returning the raw BPDU body bytes.
func ExtractBPDU(frame []byte) ([]byte, error) {
	if len(frame) < wire.EthernetHeaderLen+wire.LLCHeaderLen {
		return nil, fmt.Errorf("stp: frame too short")
	}
	return frame[wire.EthernetHeaderLen+wire.LLCHeaderLen:], nil
}
