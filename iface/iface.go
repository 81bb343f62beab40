// Package iface models the host's network interfaces: the substrate both
// the STP and mOSPF cores run their control traffic over. Raw frame
// capture/transmit, ARP resolution, and IPv4/Ethernet reception framing
// are a host concern and out of scope here (see SPEC_FULL.md §1, §4.7) —
// this package only carries the per-interface identity the cores need
// and the Sender seam a host implementation plugs into.
package iface

import (
	"encoding/binary"
	"fmt"
	"net"
)

// IP4 is an IPv4 address stored in host byte order, the representation
// used throughout the STP/mOSPF cores; it is converted to network byte
// order only at the wire (de)serialization boundary.
type IP4 uint32

// IP4FromNetIP converts a net.IP (4-byte form) to a host-order IP4.
func IP4FromNetIP(ip net.IP) IP4 {
	v4 := ip.To4()
	return IP4(binary.BigEndian.Uint32(v4))
}

// NetIP renders the address back into a net.IP for display/logging.
func (a IP4) NetIP() net.IP {
	b := make(net.IP, 4)
	binary.BigEndian.PutUint32(b, uint32(a))
	return b
}

func (a IP4) String() string {
	return a.NetIP().String()
}

// Network returns ip & mask in host order.
func Network(ip, mask IP4) IP4 {
	return ip & mask
}

// Sender is the host-provided raw-send contract consumed by the cores.
// The daemon binaries bind it to hostnet.Sender, a live pcap handle with
// a small ARP resolver; the protocol cores' tests use in-memory fakes.
type Sender interface {
	// Send transmits a fully-framed Ethernet frame out this interface.
	Send(frame []byte) error
	// SendByARP transmits a frame whose Ethernet destination still needs
	// to be resolved from dstIP via ARP before transmission.
	SendByARP(dstIP IP4, frame []byte) error
}

// Interface is one of the host's NICs plus the STP/mOSPF per-interface
// configuration layered on top of it.
type Interface struct {
	Name string
	MAC  net.HardwareAddr
	IP   IP4
	Mask IP4

	// StpPortPriority is the 8-bit STP port priority configured for
	// this interface; it feeds the port ID (priority<<8 | index).
	StpPortPriority uint8

	// HelloInterval is this interface's mOSPF Hello interval, in
	// seconds (the spec calls out that the Hello interval is
	// per-interface).
	HelloInterval uint16

	Sender Sender
}

func (i *Interface) String() string {
	return fmt.Sprintf("%s(mac=%s ip=%s mask=%s)", i.Name, i.MAC, i.IP, i.Mask)
}

// MACUint64 packs the interface's 48-bit MAC into the low 48 bits of a
// uint64, the representation the STP bridge ID and port quadruples use.
func MACUint64(mac net.HardwareAddr) uint64 {
	var v uint64
	for _, b := range mac {
		v = (v << 8) | uint64(b)
	}
	return v
}
