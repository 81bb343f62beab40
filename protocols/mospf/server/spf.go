package server

import (
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/route"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
)

// runSPFLocked recomputes shortest paths over the current LSDB and
// rewrites the routing table (SPEC_FULL.md §4.5). Callers must hold
// inst.mu; Rtable's own mutex is acquired strictly after mu, never the
// reverse.
func (inst *Instance) runSPFLocked() {
	routers := inst.db.ordered()
	log.Debugf("mospf: spf: recomputing over %d lsdb entries", inst.db.len())

	localIdx := -1
	ridToIdx := make(map[uint32]int, len(routers))
	for i, r := range routers {
		ridToIdx[r.RID] = i
		if r.RID == uint32(inst.RouterID) {
			localIdx = i
		}
	}
	if localIdx < 0 {
		log.Errorf("mospf: spf: local router %s absent from lsdb, skipping", inst.RouterID)
		return
	}

	n := len(routers)
	dist := make([]int, n)
	gw := make([]iface.IP4, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = maxDist
		gw[i] = badGW
	}
	dist[localIdx] = 0
	visited[localIdx] = true

	for _, lsa := range routers[localIdx].LSAs {
		if lsa.RID == 0 {
			continue
		}
		j, ok := ridToIdx[lsa.RID]
		if !ok {
			continue
		}
		if 1 < dist[j] {
			dist[j] = 1
			gw[j] = iface.IP4(lsa.RID)
		}
	}

	for step := 0; step < n-1; step++ {
		u := -1
		best := maxDist
		for i := 0; i < n; i++ {
			if !visited[i] && dist[i] < best {
				best = dist[i]
				u = i
			}
		}
		if u < 0 {
			break
		}
		visited[u] = true

		for _, lsa := range routers[u].LSAs {
			if lsa.RID == 0 {
				continue
			}
			v, ok := ridToIdx[lsa.RID]
			if !ok || visited[v] {
				continue
			}
			nd := dist[u] + 1
			if nd < dist[v] {
				dist[v] = nd
				if u == localIdx {
					gw[v] = iface.IP4(lsa.RID)
				} else {
					gw[v] = gw[u]
				}
			}
		}
	}

	// Install a row for every advertised subnet, stub and transit alike
	// (SPEC_FULL.md §4.5 step 6; generate_rt() iterates db->array[i] with
	// no rid filter). A transit link is advertised by both routers on it,
	// so duplicate dest rows are reconciled below, keeping the smaller
	// dist.
	rt := route.NewTable()
	for i, r := range routers {
		if !visited[i] || dist[i] >= maxDist {
			continue
		}
		for _, lsa := range r.LSAs {
			dest := iface.IP4(lsa.Subnet)
			mask := iface.IP4(lsa.Mask)

			var outIfc *iface.Interface
			var nextHop iface.IP4
			if i == localIdx {
				outIfc = inst.localIfaceForSubnet(dest, mask)
				nextHop = 0
			} else {
				outIfc = inst.localIfaceForNeighbor(gw[i])
				nextHop = gw[i]
			}
			if outIfc == nil {
				log.Warnf("mospf: spf: no local interface toward %s/%s, skipping", dest, mask)
				continue
			}

			if existing := rt.Lookup(dest); existing != nil {
				if dist[i] < existing.Dist {
					existing.Mask = mask
					existing.GW = nextHop
					existing.Dist = dist[i]
					existing.Iface = outIfc
				}
				continue
			}

			e := rt.NewEntry(dest, mask, nextHop, outIfc)
			e.Dist = dist[i]
			rt.Add(e)
		}
	}

	inst.Rtable.Clear()
	for _, e := range rt.Entries() {
		inst.Rtable.Add(e)
	}
}

// localIfaceForSubnet finds the local interface directly attached to a
// subnet, for an LSA (stub or transit) this router itself originated.
func (inst *Instance) localIfaceForSubnet(subnet, mask iface.IP4) *iface.Interface {
	for _, s := range inst.ifaces {
		if s.iface.Mask == mask && iface.Network(s.iface.IP, s.iface.Mask) == subnet {
			return s.iface
		}
	}
	return nil
}

// localIfaceForNeighbor finds the local interface whose neighbor table
// contains the given router ID — the outgoing interface toward a
// multi-hop next hop.
func (inst *Instance) localIfaceForNeighbor(rid iface.IP4) *iface.Interface {
	for _, s := range inst.ifaces {
		for _, n := range s.neighbors {
			if n.ID == rid {
				return s.iface
			}
		}
	}
	return nil
}
