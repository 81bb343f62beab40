package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WuGodLittleBad/code-for-CI/iface"
)

const sampleYAML = `
name: br0
bridge_priority: 4096
area_id: 1
interfaces:
  - name: eth0
    mac: "02:00:00:00:00:01"
    ip: 10.0.0.1
    mask: 255.255.255.0
  - name: eth1
    mac: "02:00:00:00:00:02"
    ip: 10.0.1.1
    mask: 255.255.255.0
    stp_port_priority: 16
    mospf_hello_interval: 10
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndBuildInterfaces(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "br0", cfg.Name)
	assert.EqualValues(t, 4096, cfg.Priority())
	assert.EqualValues(t, 1, cfg.AreaID)

	ifaces, err := cfg.Interfaces(nil)
	require.NoError(t, err)
	require.Len(t, ifaces, 2)

	assert.Equal(t, "eth0", ifaces[0].Name)
	assert.EqualValues(t, DefaultPortPriority, ifaces[0].StpPortPriority)
	assert.EqualValues(t, DefaultHelloInterval, ifaces[0].HelloInterval)

	assert.EqualValues(t, 16, ifaces[1].StpPortPriority)
	assert.EqualValues(t, 10, ifaces[1].HelloInterval)
	assert.Equal(t, iface.IP4FromNetIP([]byte{10, 0, 1, 1}), ifaces[1].IP)
}

func TestLoadDefaultsPriority(t *testing.T) {
	path := writeConfig(t, `
name: br1
interfaces:
  - name: eth0
    mac: "02:00:00:00:00:01"
    ip: 10.0.0.1
    mask: 255.255.255.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultBridgePriority, cfg.Priority())
}

func TestLoadRejectsEmptyInterfaces(t *testing.T) {
	path := writeConfig(t, "name: br2\n")
	_, err := Load(path)
	assert.Error(t, err)
}
