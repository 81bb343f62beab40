// Package server implements the mOSPF router core: Hello emission and
// ingestion, neighbor liveness, LSU emission/flood-forwarding, the LSDB,
// and SPF/rtable regeneration (SPEC_FULL.md §4.3-§4.5).
package server

import (
	"sync"
	"time"

	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/route"
	"github.com/WuGodLittleBad/code-for-CI/util/clock"
)

// ifaceState is one local interface plus the mOSPF neighbor state
// layered on top of it. Neighbor lists live here rather than on
// iface.Interface because they are mOSPF-instance state guarded by
// Instance.mu, not shared substrate.
type ifaceState struct {
	iface     *iface.Interface
	neighbors []*Neighbor
}

func (s *ifaceState) numNeighbors() int {
	return len(s.neighbors)
}

// Instance is a process-wide mOSPF router agent.
type Instance struct {
	mu sync.Mutex // mospfLock: guards everything below except Rtable.

	RouterID    iface.IP4
	AreaID      uint32
	SequenceNum uint16
	LSUInterval time.Duration

	// ipID is a monotonically incrementing counter standing in for the
	// C reference's ip->id = rand(): a varying IP identification value
	// per originated LSU, without giving up deterministic tests.
	ipID uint16

	ifaces []*ifaceState
	db     *lsdbStore

	nbrChanged bool
	lsuWake    chan struct{} // non-blocking wake for lsuLoop on neighbor change

	Rtable *route.Table // guarded by its own rtableLock, acquired after mu.

	newTicker func() clock.Ticker

	helloTicker clock.Ticker
	lsuTicker   clock.Ticker
	nbrTicker   clock.Ticker
	stopOnce    sync.Once
	done        chan struct{}
}

// NewInstance builds an mOSPF instance over the given interfaces. The
// router ID is the IPv4 address of the first interface, per
// SPEC_FULL.md §3. newTicker lets tests inject a fake clock.Ticker.
func NewInstance(ifaces []*iface.Interface, areaID uint32, newTicker func() clock.Ticker) *Instance {
	inst := &Instance{
		AreaID:      areaID,
		LSUInterval: DefaultLSUInterval * time.Second,
		db:          newLSDBStore(),
		Rtable:      route.NewTable(),
		newTicker:   newTicker,
		lsuWake:     make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	for _, ifc := range ifaces {
		if ifc.HelloInterval == 0 {
			ifc.HelloInterval = DefaultHelloInterval
		}
		inst.ifaces = append(inst.ifaces, &ifaceState{iface: ifc})
	}

	if len(inst.ifaces) > 0 {
		inst.RouterID = inst.ifaces[0].iface.IP
	}

	return inst
}

// Start launches the Hello emitter, LSU emitter, and neighbor-expiry
// goroutines. Must be called once after construction. Each ticker's
// period is set here: DefaultHelloInterval for Hellos, LSUInterval for
// LSUs, and one second for neighbor aging.
func (inst *Instance) Start() {
	inst.mu.Lock()
	inst.helloTicker = inst.newTicker()
	inst.helloTicker.Reset(DefaultHelloInterval * time.Second)
	inst.lsuTicker = inst.newTicker()
	inst.lsuTicker.Reset(inst.LSUInterval)
	inst.nbrTicker = inst.newTicker()
	inst.nbrTicker.Reset(time.Second)
	inst.mu.Unlock()

	go inst.helloLoop()
	go inst.lsuLoop()
	go inst.neighborExpiryLoop()
}

// Stop terminates all background goroutines. Safe to call once.
func (inst *Instance) Stop() {
	inst.stopOnce.Do(func() {
		close(inst.done)
		inst.mu.Lock()
		inst.helloTicker.Stop()
		inst.lsuTicker.Stop()
		inst.nbrTicker.Stop()
		inst.mu.Unlock()
	})
}

func (inst *Instance) findIfaceState(ifc *iface.Interface) *ifaceState {
	for _, s := range inst.ifaces {
		if s.iface == ifc {
			return s
		}
	}
	return nil
}
