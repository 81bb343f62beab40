// Package hostnet is the concrete iface.Sender a daemon main() binds
// its interfaces to: a live pcap handle for transmission and a small
// background ARP resolver, the gopacket-based pattern
// krisarmstrong-niac-go's and thelastdreamer-MultiWANBond's packet
// handling use (SPEC_FULL.md §4.7). Packet reception/dispatch into the
// STP/mOSPF cores is the caller's job; this package only originates and
// resolves addresses for frames the cores hand it.
package hostnet

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/mospf/packet"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
)

// Sender is a live pcap.Handle bound to one host NIC, satisfying
// iface.Sender.
type Sender struct {
	name   string
	mac    net.HardwareAddr
	ip     iface.IP4
	handle *pcap.Handle

	mu    sync.Mutex
	cache map[iface.IP4]net.HardwareAddr

	done chan struct{}
}

// NewSender opens a live capture/injection handle on the named NIC and
// starts the background ARP-reply listener that fills the resolution
// cache SendByARP consults.
func NewSender(name string, mac net.HardwareAddr, ip iface.IP4) (*Sender, error) {
	handle, err := pcap.OpenLive(name, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("hostnet: open %s: %w", name, err)
	}
	if err := handle.SetBPFFilter("arp"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("hostnet: set arp filter on %s: %w", name, err)
	}

	s := &Sender{
		name:   name,
		mac:    mac,
		ip:     ip,
		handle: handle,
		cache:  make(map[iface.IP4]net.HardwareAddr),
		done:   make(chan struct{}),
	}
	go s.arpListen()
	return s, nil
}

// Close releases the underlying pcap handle and stops the ARP listener.
func (s *Sender) Close() {
	close(s.done)
	s.handle.Close()
}

// Send transmits a fully-framed Ethernet frame as-is.
func (s *Sender) Send(frame []byte) error {
	return s.handle.WritePacketData(frame)
}

// SendByARP resolves dstIP's MAC from the cache and rewrites the
// frame's Ethernet destination before sending. On a cache miss it
// issues an ARP request and reports the frame as dropped; the caller's
// own periodic retransmission (the mOSPF LSU interval) will retry once
// the reply has arrived.
func (s *Sender) SendByARP(dstIP iface.IP4, frame []byte) error {
	s.mu.Lock()
	mac, ok := s.cache[dstIP]
	s.mu.Unlock()

	if !ok {
		if err := s.sendARPRequest(dstIP); err != nil {
			return err
		}
		return fmt.Errorf("hostnet: %s: no arp entry for %s yet, request sent", s.name, dstIP)
	}

	packet.RewriteEthernetDest(frame, mac)
	return s.handle.WritePacketData(frame)
}

func (s *Sender) sendARPRequest(dstIP iface.IP4) error {
	eth := &layers.Ethernet{
		SrcMAC:       s.mac,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   s.mac,
		SourceProtAddress: s.ip.NetIP().To4(),
		DstHwAddress:      net.HardwareAddr{0, 0, 0, 0, 0, 0},
		DstProtAddress:    dstIP.NetIP().To4(),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
		return fmt.Errorf("hostnet: build arp request: %w", err)
	}
	return s.handle.WritePacketData(buf.Bytes())
}

// arpListen populates the resolution cache from observed ARP replies
// (and requests, which also carry the sender's own binding) until
// Close stops the handle.
func (s *Sender) arpListen() {
	src := gopacket.NewPacketSource(s.handle, layers.LayerTypeEthernet)
	for {
		select {
		case <-s.done:
			return
		case pkt, ok := <-src.Packets():
			if !ok {
				return
			}
			arpLayer := pkt.Layer(layers.LayerTypeARP)
			if arpLayer == nil {
				continue
			}
			arp, ok := arpLayer.(*layers.ARP)
			if !ok {
				continue
			}

			ip := iface.IP4FromNetIP(net.IP(arp.SourceProtAddress))
			mac := net.HardwareAddr(arp.SourceHwAddress)

			s.mu.Lock()
			s.cache[ip] = mac
			s.mu.Unlock()
			log.Debugf("hostnet: %s: learned %s is at %s", s.name, ip, mac)
		}
	}
}
