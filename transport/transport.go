// Package transport sends and receives raw mDNS packets over UDP
// multicast, dual-stack across IPv4 and IPv6.
package transport

import (
	"context"
	"net"
)

// Observer receives packets as they arrive. PacketReceived is called from
// the transport's receive goroutine — implementations must not block it
// for long, and must not call back into the transport synchronously.
type Observer interface {
	PacketReceived(data []byte, from net.Addr)
}

// Transport is the contract a discoverer drives: join the mDNS multicast
// groups, send queries into them, and deliver whatever arrives to
// registered observers until stopped.
type Transport interface {
	// IsRunning reports whether Start has succeeded and Stop has not yet
	// been called.
	IsRunning() bool

	// Start joins groups (the mDNS multicast addresses to listen on) and
	// begins delivering received packets to observers. Calling Start on an
	// already-running transport is a no-op.
	Start(ctx context.Context, groups []net.Addr) error

	// Stop leaves the multicast groups and stops delivery. Calling Stop on
	// an already-stopped transport is a no-op.
	Stop() error

	// Send writes packet to every group the transport joined in Start.
	Send(ctx context.Context, packet []byte) error

	// AddObserver registers o to receive future packets. Safe to call
	// before or after Start.
	AddObserver(o Observer)
}
