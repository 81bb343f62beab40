package server

import (
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
)

// Neighbor is an mOSPF adjacency discovered via Hello, as described in
// SPEC_FULL.md §3.
type Neighbor struct {
	ID    iface.IP4 // that neighbor's router ID
	IP    iface.IP4
	Mask  iface.IP4
	Alive int // seconds until expiry
}

// neighborExpiryLoop decrements every neighbor's liveness once per tick
// and removes any that reach zero, setting nbrChanged (SPEC_FULL.md
// §4.3).
func (inst *Instance) neighborExpiryLoop() {
	for {
		select {
		case <-inst.nbrTicker.C():
			inst.expireNeighbors()
		case <-inst.done:
			return
		}
	}
}

func (inst *Instance) expireNeighbors() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	for _, s := range inst.ifaces {
		kept := s.neighbors[:0]
		for _, n := range s.neighbors {
			n.Alive--
			if n.Alive <= 0 {
				inst.nbrChanged = true
				log.Debugf("mospf: %s: neighbor %s expired", s.iface.Name, n.ID)
				continue
			}
			kept = append(kept, n)
		}
		s.neighbors = kept
	}
	inst.wakeLSULocked()
}

// wakeLSULocked nudges lsuLoop to re-originate ahead of schedule after a
// neighbor change, per SPEC_FULL.md §4.4. Must be called with mu held;
// the channel send is non-blocking so repeated changes between LSU
// originations never pile up.
func (inst *Instance) wakeLSULocked() {
	if !inst.nbrChanged {
		return
	}
	select {
	case inst.lsuWake <- struct{}{}:
	default:
	}
}

// handleHello implements Hello ingestion (SPEC_FULL.md §4.3): refresh an
// existing neighbor's liveness, or insert a new one.
func (inst *Instance) handleHello(ifc *iface.Interface, srcIP iface.IP4, rid iface.IP4, mask iface.IP4) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	s := inst.findIfaceState(ifc)
	if s == nil {
		return
	}

	for _, n := range s.neighbors {
		if n.ID == rid {
			n.Alive = NeighborTimeout
			return
		}
	}

	s.neighbors = append(s.neighbors, &Neighbor{
		ID:    rid,
		IP:    srcIP,
		Mask:  mask,
		Alive: NeighborTimeout,
	})
	inst.nbrChanged = true
	inst.wakeLSULocked()
}
