package server

import (
	"github.com/WuGodLittleBad/code-for-CI/iface"
)

// Role is a port's derived STP role; it is never stored, always computed
// from the port's and bridge's current fields (SPEC_FULL.md §4.1).
type Role int

const (
	RoleAlternate Role = iota
	RoleRoot
	RoleDesignated
)

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "ROOT"
	case RoleDesignated:
		return "DESIGNATED"
	default:
		return "ALTERNATE"
	}
}

// Port is one of the bridge's switch ports.
type Port struct {
	bridge *Bridge
	index  int
	iface  *iface.Interface

	ID       uint16
	PathCost uint32

	DesignatedRoot   uint64
	DesignatedSwitch uint64
	DesignatedPort   uint16
	DesignatedCost   uint32
}

// Name returns the underlying host interface's name.
func (p *Port) Name() string {
	return p.iface.Name
}

func (p *Port) vector() priorityVector {
	return priorityVector{
		RootID:       p.DesignatedRoot,
		RootPathCost: p.DesignatedCost,
		SwitchID:     p.DesignatedSwitch,
		PortID:       p.DesignatedPort,
	}
}

// isDesignated reports whether this port currently satisfies the
// designated-port invariant: designated_switch == switch_id &&
// designated_port == port_id.
func (p *Port) isDesignated() bool {
	return p.DesignatedSwitch == p.bridge.SwitchID && p.DesignatedPort == p.ID
}

// Role computes this port's current role: ROOT if it is the bridge's
// root port, DESIGNATED if it satisfies the designated invariant,
// ALTERNATE otherwise. Must be called with the bridge lock held.
func (p *Port) Role() Role {
	if p.bridge.rootPort == p.index {
		return RoleRoot
	}
	if p.isDesignated() {
		return RoleDesignated
	}
	return RoleAlternate
}

// resetToInitial reinitializes a port's designated quadruple from the
// bridge's current view, as done at bridge construction time (the
// "Initial" state in SPEC_FULL.md §3).
func (p *Port) resetToInitial() {
	p.DesignatedRoot = p.bridge.DesignatedRoot
	p.DesignatedSwitch = p.bridge.SwitchID
	p.DesignatedPort = p.ID
	p.DesignatedCost = p.bridge.RootPathCost
}
