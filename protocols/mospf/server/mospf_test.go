package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/mospf/packet"
	"github.com/WuGodLittleBad/code-for-CI/util/clock"
	"github.com/WuGodLittleBad/code-for-CI/wire"
)

type fakeSender struct {
	sent [][]byte
}

func (f *fakeSender) Send(frame []byte) error {
	f.sent = append(f.sent, frame)
	return nil
}

func (f *fakeSender) SendByARP(dstIP iface.IP4, frame []byte) error {
	return f.Send(frame)
}

func newTestIface(name string, macLow byte, ip, mask iface.IP4) (*iface.Interface, *fakeSender) {
	s := &fakeSender{}
	ifc := &iface.Interface{
		Name:   name,
		MAC:    net.HardwareAddr{0, 0, 0, 0, 0, macLow},
		IP:     ip,
		Mask:   mask,
		Sender: s,
	}
	return ifc, s
}

func newTestInstance(t *testing.T, ifaces []*iface.Interface) *Instance {
	t.Helper()
	return NewInstance(ifaces, 0, func() clock.Ticker { return clock.NewManual() })
}

// TestNeighborExpiry is scenario S2: a neighbor's liveness counts down
// and it is removed exactly when it reaches zero, setting nbrChanged.
func TestNeighborExpiry(t *testing.T) {
	ifc, _ := newTestIface("eth0", 1, 10, 0xFFFFFF00)
	inst := newTestInstance(t, []*iface.Interface{ifc})
	inst.ifaces[0].neighbors = []*Neighbor{{ID: 2, Alive: 2}}

	inst.expireNeighbors()
	require.Len(t, inst.ifaces[0].neighbors, 1)
	assert.Equal(t, 1, inst.ifaces[0].neighbors[0].Alive)

	inst.expireNeighbors()
	assert.Empty(t, inst.ifaces[0].neighbors)
	assert.True(t, inst.nbrChanged)
}

func buildLSUFrame(rid uint32, seq, ttl uint16, lsas []packet.LSA, srcMAC net.HardwareAddr, srcIP uint32) []byte {
	h := &packet.Header{Type: packet.TypeLSU, RouterID: rid}
	h.Len = packet.HeaderLen + packet.LSUBodyLen + packet.LSALen*uint16(len(lsas))
	body := (&packet.LSU{Seq: seq, TTL: ttl, LSAs: lsas}).MarshalBinary()
	return packet.BuildFrame(srcMAC, wire.MOSPFMulticastMAC, srcIP, wire.MOSPFMulticastIP, 0, 0, h, body)
}

// TestHandleLSUSequenceGating is scenario S3: a sequence number no
// newer than what's stored is discarded silently and never flooded; a
// fresher one replaces the entry and floods out every other interface.
func TestHandleLSUSequenceGating(t *testing.T) {
	ifcA, senderA := newTestIface("eth0", 1, 10, 0xFFFFFF00)
	ifcB, senderB := newTestIface("eth1", 2, 20, 0xFFFFFF00)
	inst := newTestInstance(t, []*iface.Interface{ifcA, ifcB})
	inst.ifaces[0].neighbors = []*Neighbor{{ID: 99, IP: 11}}
	inst.ifaces[1].neighbors = []*Neighbor{{ID: 100, IP: 21}}

	lsas := []packet.LSA{{Subnet: 0x0A000000, Mask: 0xFFFFFF00, RID: 0}}

	frame := buildLSUFrame(5, 1, 32, lsas, ifcA.MAC, uint32(ifcA.IP))
	_, _, h, body, err := packet.Split(frame)
	require.NoError(t, err)
	lsu := packet.UnmarshalLSU(body)

	inst.handleLSU(ifcA, frame, h, lsu)

	entry, ok := inst.db.get(5)
	require.True(t, ok)
	assert.Equal(t, uint16(1), entry.Seq)
	assert.Len(t, senderB.sent, 1)
	assert.Empty(t, senderA.sent)

	inst.handleLSU(ifcA, frame, h, lsu)
	assert.Len(t, senderB.sent, 1, "an equal-or-older sequence must not re-flood")

	frame2 := buildLSUFrame(5, 2, 32, lsas, ifcA.MAC, uint32(ifcA.IP))
	_, _, h2, body2, err := packet.Split(frame2)
	require.NoError(t, err)
	lsu2 := packet.UnmarshalLSU(body2)
	inst.handleLSU(ifcA, frame2, h2, lsu2)

	entry, ok = inst.db.get(5)
	require.True(t, ok)
	assert.Equal(t, uint16(2), entry.Seq)
	assert.Len(t, senderB.sent, 2, "a fresher sequence must replace and flood again")
}

// TestSPFTwoHop is scenario S4: a three-router line R0-R1-R2 resolves
// R2's stub subnet at distance 2 via R1 as next hop.
func TestSPFTwoHop(t *testing.T) {
	ifc0, _ := newTestIface("eth0", 1, 1, 0xFFFFFFF0)
	inst := newTestInstance(t, []*iface.Interface{ifc0})
	inst.ifaces[0].neighbors = []*Neighbor{{ID: 2}}

	subnet01 := uint32(iface.Network(ifc0.IP, ifc0.Mask))
	mask := uint32(ifc0.Mask)
	subnet12 := subnet01 + 0x10
	stub := subnet01 + 0x20

	inst.db.upsert(&lsdbEntry{RID: 1, Seq: 1, LSAs: []packet.LSA{
		{Subnet: subnet01, Mask: mask, RID: 2},
	}})
	inst.db.upsert(&lsdbEntry{RID: 2, Seq: 1, LSAs: []packet.LSA{
		{Subnet: subnet01, Mask: mask, RID: 1},
		{Subnet: subnet12, Mask: mask, RID: 3},
	}})
	inst.db.upsert(&lsdbEntry{RID: 3, Seq: 1, LSAs: []packet.LSA{
		{Subnet: subnet12, Mask: mask, RID: 2},
		{Subnet: stub, Mask: mask, RID: 0},
	}})

	inst.runSPFLocked()

	e := inst.Rtable.Lookup(iface.IP4(stub))
	require.NotNil(t, e)
	assert.Equal(t, 2, e.Dist)
	assert.Equal(t, iface.IP4(2), e.GW)
	assert.Equal(t, ifc0, e.Iface)

	// The local router's own transit subnet must resolve to a direct
	// route, not be skipped because its LSA names a neighbor RID.
	direct := inst.Rtable.Lookup(iface.IP4(subnet01))
	require.NotNil(t, direct)
	assert.Equal(t, 0, direct.Dist)
	assert.Equal(t, iface.IP4(0), direct.GW)
	assert.Equal(t, ifc0, direct.Iface)

	// The remote transit link (R2-R3) must also get a row, via R2 as
	// next hop, deduped against R3's farther-away copy of the same LSA.
	transit := inst.Rtable.Lookup(iface.IP4(subnet12))
	require.NotNil(t, transit)
	assert.Equal(t, 1, transit.Dist)
	assert.Equal(t, iface.IP4(2), transit.GW)
	assert.Equal(t, ifc0, transit.Iface)
}

// TestStubSubnetAndDirectRoute is scenario S5: a lone interface with no
// neighbors originates a single stub LSA and resolves to one
// directly-attached routing-table row (gw 0, dist 0).
func TestStubSubnetAndDirectRoute(t *testing.T) {
	ifc0, _ := newTestIface("eth0", 1, 10, 0xFFFFFF00)
	inst := newTestInstance(t, []*iface.Interface{ifc0})

	inst.sendLSU()

	entry, ok := inst.db.get(uint32(inst.RouterID))
	require.True(t, ok)
	require.Len(t, entry.LSAs, 1)
	assert.EqualValues(t, 0, entry.LSAs[0].RID)

	e := inst.Rtable.Lookup(iface.Network(ifc0.IP, ifc0.Mask))
	require.NotNil(t, e)
	assert.EqualValues(t, 0, e.GW)
	assert.Equal(t, ifc0, e.Iface)
	assert.Equal(t, 0, e.Dist)
}
