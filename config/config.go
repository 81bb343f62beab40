// Package config loads the YAML configuration file shared by the STP
// bridge and mOSPF router daemons: interface identity, addressing, and
// the per-protocol tuning knobs (SPEC_FULL.md §4.9).
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/WuGodLittleBad/code-for-CI/iface"
)

// Default tuning values, applied to any interface that leaves the
// corresponding field unset or zero.
const (
	DefaultBridgePriority = 0x8000
	DefaultPortPriority   = 0x80
	DefaultHelloInterval  = 5
)

// IfaceConfig describes one configured network interface.
type IfaceConfig struct {
	Name string `yaml:"name"`
	MAC  string `yaml:"mac"`
	IP   string `yaml:"ip"`
	Mask string `yaml:"mask"`

	// StpPortPriority is this interface's STP port priority. Zero means
	// DefaultPortPriority.
	StpPortPriority uint8 `yaml:"stp_port_priority,omitempty"`

	// MospfHelloInterval is this interface's mOSPF Hello period, in
	// seconds. Zero means DefaultHelloInterval.
	MospfHelloInterval uint16 `yaml:"mospf_hello_interval,omitempty"`
}

// Config is the top-level document layout.
type Config struct {
	// Name identifies the daemon instance in logs and dumps.
	Name string `yaml:"name"`

	// BridgePriority is this bridge's STP priority (the high bits of
	// its switch ID). Zero means DefaultBridgePriority.
	BridgePriority uint16 `yaml:"bridge_priority,omitempty"`

	// AreaID is this router's mOSPF area. Defaults to 0 (backbone).
	AreaID uint32 `yaml:"area_id,omitempty"`

	Interfaces []IfaceConfig `yaml:"interfaces"`
}

// Load reads and parses a YAML configuration file from disk.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(c.Interfaces) == 0 {
		return nil, fmt.Errorf("config: %s: no interfaces configured", path)
	}
	return &c, nil
}

// Interfaces builds runtime iface.Interface values from the parsed
// config. newSender, if non-nil, is called once per interface (after
// its MAC/IP have been parsed) to attach a host-specific iface.Sender —
// hostnet.NewSender in a real daemon main() (SPEC_FULL.md §4.7).
func (c *Config) Interfaces(newSender func(name string, mac net.HardwareAddr, ip iface.IP4) (iface.Sender, error)) ([]*iface.Interface, error) {
	out := make([]*iface.Interface, 0, len(c.Interfaces))
	for _, ic := range c.Interfaces {
		mac, err := net.ParseMAC(ic.MAC)
		if err != nil {
			return nil, fmt.Errorf("config: interface %s: bad mac %q: %w", ic.Name, ic.MAC, err)
		}
		ip := net.ParseIP(ic.IP)
		if ip == nil {
			return nil, fmt.Errorf("config: interface %s: bad ip %q", ic.Name, ic.IP)
		}
		mask := net.ParseIP(ic.Mask)
		if mask == nil {
			return nil, fmt.Errorf("config: interface %s: bad mask %q", ic.Name, ic.Mask)
		}

		prio := ic.StpPortPriority
		if prio == 0 {
			prio = DefaultPortPriority
		}
		hello := ic.MospfHelloInterval
		if hello == 0 {
			hello = DefaultHelloInterval
		}

		ip4 := iface.IP4FromNetIP(ip)

		var s iface.Sender
		if newSender != nil {
			s, err = newSender(ic.Name, mac, ip4)
			if err != nil {
				return nil, fmt.Errorf("config: interface %s: %w", ic.Name, err)
			}
		}

		out = append(out, &iface.Interface{
			Name:            ic.Name,
			MAC:             mac,
			IP:              ip4,
			Mask:            iface.IP4FromNetIP(mask),
			StpPortPriority: prio,
			HelloInterval:   hello,
			Sender:          s,
		})
	}
	return out, nil
}

// Priority returns the configured bridge priority, or the default.
func (c *Config) Priority() uint16 {
	if c.BridgePriority == 0 {
		return DefaultBridgePriority
	}
	return c.BridgePriority
}
