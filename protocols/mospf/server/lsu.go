package server

import (
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/mospf/packet"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
	"github.com/WuGodLittleBad/code-for-CI/wire"
)

// lsuLoop originates an LSU on the regular LSUInterval cadence, or early
// whenever a neighbor change wakes it (SPEC_FULL.md §4.4).
func (inst *Instance) lsuLoop() {
	for {
		select {
		case <-inst.lsuTicker.C():
			inst.sendLSU()
		case <-inst.lsuWake:
			inst.sendLSU()
		case <-inst.done:
			return
		}
	}
}

// sendLSU builds this router's own link-state advertisement — for each
// attached subnet, one LSA per neighbor on it carrying that neighbor's
// router ID, or a single RID-0 stub LSA if it has no neighbor — floods
// it to every known neighbor, and
// regenerates the routing table from the updated LSDB (SPEC_FULL.md
// §4.4).
func (inst *Instance) sendLSU() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	inst.nbrChanged = false

	var lsas []packet.LSA
	for _, s := range inst.ifaces {
		subnet := uint32(iface.Network(s.iface.IP, s.iface.Mask))
		mask := uint32(s.iface.Mask)

		if s.numNeighbors() == 0 {
			lsas = append(lsas, packet.LSA{Subnet: subnet, Mask: mask, RID: 0})
			continue
		}
		for _, n := range s.neighbors {
			lsas = append(lsas, packet.LSA{Subnet: subnet, Mask: mask, RID: uint32(n.ID)})
		}
	}

	inst.SequenceNum++

	inst.db.upsert(&lsdbEntry{
		RID:  uint32(inst.RouterID),
		Seq:  inst.SequenceNum,
		NAdv: uint32(len(lsas)),
		LSAs: lsas,
	})

	h := &packet.Header{
		Type:     packet.TypeLSU,
		RouterID: uint32(inst.RouterID),
		AreaID:   inst.AreaID,
	}
	h.Len = packet.HeaderLen + packet.LSUBodyLen + packet.LSALen*uint16(len(lsas))

	body := (&packet.LSU{Seq: inst.SequenceNum, TTL: MaxLSUTTL, LSAs: lsas}).MarshalBinary()

	for _, s := range inst.ifaces {
		if s.numNeighbors() == 0 {
			continue
		}
		ifc := s.iface
		if ifc.Sender == nil {
			continue
		}

		inst.ipID++
		frame := packet.BuildFrame(ifc.MAC, wire.MOSPFMulticastMAC, uint32(ifc.IP), wire.MOSPFMulticastIP, inst.ipID, wire.FlagDF, h, body)
		for _, n := range s.neighbors {
			f := append([]byte(nil), frame...)
			packet.RewriteIPSourceDest(f, uint32(ifc.IP), uint32(n.IP))
			if err := ifc.Sender.SendByARP(n.IP, f); err != nil {
				log.Errorf("mospf: %s: lsu send to %s failed: %v", ifc.Name, n.ID, err)
			}
		}
	}

	inst.runSPFLocked()
}

// handleLSU ingests a received LSU: sequence-gates it against the
// stored entry, replaces the LSDB entry on a fresher sequence, floods it
// out every interface but the one it arrived on, and regenerates the
// routing table (SPEC_FULL.md §4.4, §9).
func (inst *Instance) handleLSU(arrival *iface.Interface, frame []byte, h *packet.Header, lsu *packet.LSU) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if existing, ok := inst.db.get(h.RouterID); ok && lsu.Seq <= existing.Seq {
		return
	}

	inst.db.upsert(&lsdbEntry{
		RID:  h.RouterID,
		Seq:  lsu.Seq,
		NAdv: uint32(len(lsu.LSAs)),
		LSAs: lsu.LSAs,
	})

	if lsu.TTL > 1 {
		for _, s := range inst.ifaces {
			if s.iface == arrival || s.numNeighbors() == 0 {
				continue
			}
			ifc := s.iface
			if ifc.Sender == nil {
				continue
			}

			fwd := append([]byte(nil), frame...)
			packet.DecrementTTLs(fwd)
			packet.RewriteEthernetSource(fwd, ifc.MAC)

			for _, n := range s.neighbors {
				f := append([]byte(nil), fwd...)
				packet.RewriteIPSourceDest(f, uint32(ifc.IP), uint32(n.IP))
				if err := ifc.Sender.SendByARP(n.IP, f); err != nil {
					log.Errorf("mospf: %s: lsu flood to %s failed: %v", ifc.Name, n.ID, err)
				}
			}
		}
	}

	inst.runSPFLocked()
}
