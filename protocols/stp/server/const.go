package server

import "time"

const (
	// MaxAge, HelloTime, and ForwardDelay are the standard values
	// advertised in every config BPDU this bridge sends.
	MaxAge       uint16 = 20
	HelloTime    uint16 = 2
	ForwardDelay uint16 = 15

	// BridgePriority is the default 16-bit priority used to form a
	// bridge's switch ID when none is configured.
	BridgePriority uint16 = 0x8000

	// PortPriority is the default 8-bit priority used to form a port
	// ID when none is configured.
	PortPriority uint8 = 0x80

	// HelloPeriod is how often the hello ticker fires while this
	// bridge believes itself to be root.
	HelloPeriod = time.Duration(HelloTime) * time.Second
)
