// Package client is the public facade of the mDNS/DNS-SD browser: it owns
// a transport, turns queries into wire messages, decodes incoming
// responses into Services, and exposes a snapshot of what's been found.
package client

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	intErrors "github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/message"
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/query"
	"github.com/cybergarage/go-mdns/service"
	"github.com/cybergarage/go-mdns/transport"
)

// Client discovers mDNS/DNS-SD services. Its lifecycle is Idle until
// Start succeeds, Running until Stop is called, and Idle again afterward —
// Start/Stop may be called again on the same Client once it returns to
// Idle. Canceling the ctx given to Start does not stop the Client.
type Client struct {
	logger    *slog.Logger
	transport transport.Transport

	mu    sync.Mutex
	state state

	servicesMu sync.Mutex
	services   []service.Service
}

type state int

const (
	stateIdle state = iota
	stateRunning
)

// New builds a Client. Without WithTransport, it constructs a dual-stack
// UDPTransport using whatever other transport options were given.
func New(opts ...Option) (*Client, error) {
	c := &Client{logger: slog.Default()}
	var transportOpts []transport.Option

	cfg := &config{}
	for _, opt := range opts {
		opt(c, cfg)
	}

	if cfg.transport != nil {
		c.transport = cfg.transport
	} else {
		transportOpts = cfg.transportOpts
		t, err := transport.NewUDP(transportOpts...)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}

	c.transport.AddObserver(c)
	return c, nil
}

// Start joins the mDNS multicast groups. Calling Start while already
// Running is a no-op.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateRunning {
		return nil
	}

	groups := []net.Addr{protocol.MulticastGroupIPv4(), protocol.MulticastGroupIPv6()}
	if err := c.transport.Start(ctx, groups); err != nil {
		return err
	}
	c.state = stateRunning
	return nil
}

// Stop leaves the multicast groups. Calling Stop while Idle is a no-op.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateIdle {
		return nil
	}
	if err := c.transport.Stop(); err != nil {
		return err
	}
	c.state = stateIdle
	return nil
}

// Search sends q's query message to the multicast groups. Discovered
// services accumulate asynchronously as responses arrive; read them back
// with Services. Search requires the Client to be Running.
func (c *Client) Search(ctx context.Context, q query.Query) error {
	c.mu.Lock()
	running := c.state == stateRunning
	c.mu.Unlock()
	if !running {
		return &intErrors.TransportError{Operation: "search", Err: errNotRunning}
	}

	packet := query.NewMessage(q).Serialize()
	return c.transport.Send(ctx, packet)
}

// Services returns a snapshot of every service discovered so far. The
// returned slice is owned by the caller; later discoveries do not mutate it.
func (c *Client) Services() []service.Service {
	c.servicesMu.Lock()
	defer c.servicesMu.Unlock()
	out := make([]service.Service, len(c.services))
	copy(out, c.services)
	return out
}

// PacketReceived implements transport.Observer: it parses data as a DNS
// message, drops anything that fails to parse, and appends the Service
// it aggregates from the parsed message to the discovered set.
func (c *Client) PacketReceived(data []byte, _ net.Addr) {
	msg, err := message.Parse(data)
	if err != nil {
		c.logger.Debug("dropped malformed packet", "error", err)
		return
	}

	svc := service.FromMessage(msg)
	c.servicesMu.Lock()
	c.services = append(c.services, svc)
	c.servicesMu.Unlock()
}

var errNotRunning = errors.New("client is not running")
