package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/stp/packet"
	"github.com/WuGodLittleBad/code-for-CI/util/clock"
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

func newTestBridge(t *testing.T, macLow byte, numPorts int) (*Bridge, []*fakeSender) {
	t.Helper()

	senders := make([]*fakeSender, numPorts)
	ifaces := make([]*iface.Interface, numPorts)
	for i := 0; i < numPorts; i++ {
		senders[i] = &fakeSender{}
		ifaces[i] = &iface.Interface{
			Name:   "eth" + string(rune('0'+i)),
			MAC:    net.HardwareAddr{0, 0, 0, 0, 0, macLow + byte(i)},
			Sender: senders[i],
		}
	}

	b, err := NewBridge(ifaces, 0x8000, func() clock.Ticker { return clock.NewManual() })
	require.NoError(t, err)
	return b, senders
}

func TestNewBridgeStartsAsRoot(t *testing.T) {
	b, _ := newTestBridge(t, 1, 2)

	assert.True(t, b.IsRoot())
	assert.Equal(t, noRootPort, b.rootPort)
	for _, p := range b.Ports {
		assert.Equal(t, RoleDesignated, p.Role())
	}
}

// TestBetterBPDUElectsRootPort exercises STP invariant #2: injecting a
// BPDU strictly better than all current port quadruples makes the
// bridge non-root, elects that port as root port, and propagates the
// new designated_root/root_path_cost to every other port.
func TestBetterBPDUElectsRootPort(t *testing.T) {
	b, _ := newTestBridge(t, 1, 2)
	p0, p1 := b.Ports[0], b.Ports[1]

	better := &packet.Config{
		RootID:       b.SwitchID - 1, // strictly smaller switch ID => better root
		RootPathCost: 0,
		SwitchID:     b.SwitchID - 1,
		PortID:       1,
	}

	b.HandlePacket(p0, packet.Frame(p0.iface.MAC, better))

	assert.False(t, b.IsRoot())
	assert.Equal(t, p0.index, b.rootPort)
	assert.Equal(t, RoleRoot, p0.Role())
	assert.Equal(t, better.RootID, b.DesignatedRoot)
	assert.Equal(t, better.RootPathCost+p0.PathCost, b.RootPathCost)

	// p1 must have inherited the new designated_root / cost, and must
	// now be ALTERNATE or DESIGNATED depending on its own id, never ROOT.
	assert.Equal(t, b.DesignatedRoot, p1.DesignatedRoot)
	assert.Equal(t, b.RootPathCost, p1.DesignatedCost)
	assert.NotEqual(t, RoleRoot, p1.Role())
}

// TestEqualBPDUFloodsDesignatedPorts exercises the first half of STP
// invariant #3: a BPDU exactly tied with a port's stored quadruple
// triggers a re-advertisement on all designated ports. The second half
// (a worse BPDU sends nothing) is TestWorseBPDUProducesNoFlood.
func TestEqualBPDUFloodsDesignatedPorts(t *testing.T) {
	b, senders := newTestBridge(t, 1, 2)
	p0 := b.Ports[0]

	tie := &packet.Config{
		RootID:       p0.DesignatedRoot,
		RootPathCost: p0.DesignatedCost,
		SwitchID:     p0.DesignatedSwitch,
		PortID:       p0.DesignatedPort,
	}
	b.HandlePacket(p0, packet.Frame(p0.iface.MAC, tie))

	assert.NotEmpty(t, senders[0].sent)
	assert.NotEmpty(t, senders[1].sent)
}

func TestWorseBPDUProducesNoFlood(t *testing.T) {
	b, senders := newTestBridge(t, 1, 2)
	p0 := b.Ports[0]

	worse := &packet.Config{
		RootID:       b.DesignatedRoot + 1000,
		RootPathCost: 0,
		SwitchID:     b.SwitchID + 1,
		PortID:       p0.DesignatedPort,
	}
	b.HandlePacket(p0, packet.Frame(p0.iface.MAC, worse))

	assert.Empty(t, senders[0].sent)
	assert.Empty(t, senders[1].sent)
	assert.Equal(t, b.SwitchID, p0.DesignatedSwitch)
	assert.Equal(t, p0.ID, p0.DesignatedPort)
}

// TestExactlyOneRootPortOnNonRootBridge is STP invariant #1.
func TestExactlyOneRootPortOnNonRootBridge(t *testing.T) {
	b, _ := newTestBridge(t, 1, 3)

	better := &packet.Config{
		RootID:       b.SwitchID - 1,
		RootPathCost: 0,
		SwitchID:     b.SwitchID - 1,
		PortID:       1,
	}
	b.HandlePacket(b.Ports[0], packet.Frame(b.Ports[0].iface.MAC, better))

	roots := 0
	for _, p := range b.Ports {
		if p.Role() == RoleRoot {
			roots++
		}
	}
	assert.Equal(t, 1, roots)
}

func TestHelloTickerStopsOnBecomingNonRoot(t *testing.T) {
	b, senders := newTestBridge(t, 1, 1)
	b.Start()

	mt := b.hello.(*clock.Manual)
	mt.Fire(time.Now())

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(senders[0].sent) > 0
	}, time.Second, time.Millisecond)

	better := &packet.Config{
		RootID:       b.SwitchID - 1,
		RootPathCost: 0,
		SwitchID:     b.SwitchID - 1,
		PortID:       1,
	}
	b.HandlePacket(b.Ports[0], packet.Frame(b.Ports[0].iface.MAC, better))

	b.mu.Lock()
	stopped := b.hello == nil
	b.mu.Unlock()
	assert.True(t, stopped)
	assert.True(t, mt.Stopped())
}
