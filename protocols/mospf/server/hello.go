package server

import (
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/mospf/packet"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
	"github.com/WuGodLittleBad/code-for-CI/wire"
)

func (inst *Instance) helloLoop() {
	for {
		select {
		case <-inst.helloTicker.C():
			inst.sendHellos()
		case <-inst.done:
			return
		}
	}
}

// sendHellos implements the Hello emitter of SPEC_FULL.md §4.3: one
// Hello per interface, link-local multicast destination.
func (inst *Instance) sendHellos() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	for _, s := range inst.ifaces {
		ifc := s.iface

		h := &packet.Header{
			Type:     packet.TypeHello,
			RouterID: uint32(inst.RouterID),
			AreaID:   inst.AreaID,
		}
		h.Len = packet.HeaderLen + packet.HelloBodyLen

		hello := &packet.Hello{
			Mask:          uint32(ifc.Mask),
			HelloInterval: ifc.HelloInterval,
		}

		frame := packet.BuildFrame(
			ifc.MAC, wire.MOSPFMulticastMAC,
			uint32(ifc.IP), wire.MOSPFMulticastIP,
			0, 0,
			h, hello.MarshalBinary(),
		)

		if ifc.Sender == nil {
			continue
		}
		if err := ifc.Sender.Send(frame); err != nil {
			log.Errorf("mospf: %s: hello send failed: %v", ifc.Name, err)
		}
	}
}

// HandlePacket is the single entry point for a received mOSPF frame:
// version/checksum/area validation, then dispatch by type
// (SPEC_FULL.md §7).
func (inst *Instance) HandlePacket(ifc *iface.Interface, frame []byte) {
	_, ip, h, body, err := packet.Split(frame)
	if err != nil {
		log.Errorf("mospf: %s: %v", ifc.Name, err)
		return
	}

	if h.WireVersion != packet.Version {
		log.Errorf("mospf: %s: received mospf packet with incorrect version (%d)", ifc.Name, h.WireVersion)
		return
	}

	wantChecksum := h.Checksum
	gotChecksum := packet.Checksum(h, body)
	if wantChecksum != gotChecksum {
		log.Errorf("mospf: %s: received mospf packet with incorrect checksum", ifc.Name)
		return
	}

	if h.AreaID != inst.AreaID {
		log.Errorf("mospf: %s: received mospf packet with incorrect area id", ifc.Name)
		return
	}

	switch h.Type {
	case packet.TypeHello:
		hello := packet.UnmarshalHello(body)
		inst.handleHello(ifc, iface.IP4(ip.SrcIP), iface.IP4(h.RouterID), iface.IP4(hello.Mask))
	case packet.TypeLSU:
		if len(body) < packet.LSUBodyLen {
			log.Errorf("mospf: %s: received truncated lsu (%d body bytes)", ifc.Name, len(body))
			return
		}
		lsu := packet.UnmarshalLSU(body)
		inst.handleLSU(ifc, frame, h, lsu)
	default:
		log.Errorf("mospf: %s: received mospf packet with unknown type (%d)", ifc.Name, h.Type)
	}
}
