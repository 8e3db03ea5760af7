package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/cybergarage/go-mdns/internal/bufferpool"
	intErrors "github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/iface"
	"github.com/cybergarage/go-mdns/internal/ratelimit"
)

// pollInterval bounds how long a single read blocks before the receive
// loop re-checks ctx; it is not a query timeout.
const pollInterval = 100 * time.Millisecond

// UDPTransport is the dual-stack Transport implementation: it binds the
// groups' port (5353 for the mDNS groups) on both "udp4" and "udp6", joins
// the groups passed to Start on
// every selected interface, and fans received packets out to observers.
type UDPTransport struct {
	logger *slog.Logger

	explicitInterfaces []net.Interface
	interfaceFilter    iface.Filter

	rateLimitEnabled    bool
	rateLimitThreshold  int
	rateLimitCooldown   time.Duration
	limiter             *ratelimit.Limiter

	mu      sync.Mutex
	running bool
	conn4   net.PacketConn
	conn6   net.PacketConn
	pc4     *ipv4.PacketConn
	pc6     *ipv6.PacketConn
	groups4 []net.Addr
	groups6 []net.Addr
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	observersMu sync.Mutex
	observers   []Observer
}

// NewUDP builds a dual-stack UDP multicast transport. It does not open any
// socket until Start is called.
func NewUDP(opts ...Option) (*UDPTransport, error) {
	t := &UDPTransport{
		logger:             slog.Default(),
		rateLimitEnabled:   true,
		rateLimitThreshold: 100,
		rateLimitCooldown:  60 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if t.rateLimitEnabled {
		t.limiter = ratelimit.New(t.rateLimitThreshold, t.rateLimitCooldown, 10000)
	}
	return t, nil
}

// IsRunning reports whether Start has succeeded and Stop has not run since.
func (t *UDPTransport) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// AddObserver registers o to receive future packets.
func (t *UDPTransport) AddObserver(o Observer) {
	t.observersMu.Lock()
	defer t.observersMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *UDPTransport) notify(data []byte, from net.Addr) {
	t.observersMu.Lock()
	observers := append([]Observer(nil), t.observers...)
	t.observersMu.Unlock()

	for _, o := range observers {
		o.PacketReceived(data, from)
	}
}

// Start binds the groups' port on udp4 and udp6, joins groups on the
// selected interfaces, and begins the receive loops. A join that fails on
// one interface is logged and skipped; Start fails if no join succeeds on
// any interface. A no-op if already running.
func (t *UDPTransport) Start(ctx context.Context, groups []net.Addr) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}

	ifaces, err := t.selectInterfaces()
	if err != nil {
		return &intErrors.TransportError{Operation: "select interfaces", Err: err}
	}

	var groups4, groups6 []net.Addr
	for _, g := range groups {
		udpAddr, ok := g.(*net.UDPAddr)
		if !ok {
			continue
		}
		if udpAddr.IP.To4() != nil {
			groups4 = append(groups4, udpAddr)
		} else {
			groups6 = append(groups6, udpAddr)
		}
	}

	lc := net.ListenConfig{Control: platformControl}
	runCtx, cancel := context.WithCancel(context.Background())
	joined := 0

	if len(groups4) > 0 {
		conn, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf("0.0.0.0:%d", groups4[0].(*net.UDPAddr).Port))
		if err != nil {
			cancel()
			return &intErrors.TransportError{Operation: "listen udp4", Err: err}
		}
		pc := ipv4.NewPacketConn(conn)
		for _, i := range ifaces {
			for _, g := range groups4 {
				ifaceCopy := i
				if err := pc.JoinGroup(&ifaceCopy, g); err != nil {
					t.logger.Debug("join ipv4 group failed", "interface", i.Name, "group", g, "error", err)
				} else {
					joined++
				}
			}
		}
		_ = pc.SetMulticastTTL(255)
		_ = pc.SetMulticastLoopback(true)
		t.conn4, t.pc4, t.groups4 = conn, pc, groups4
		t.wg.Add(1)
		go t.receiveLoopV4(runCtx)
	}

	if len(groups6) > 0 {
		conn, err := lc.ListenPacket(ctx, "udp6", fmt.Sprintf("[::]:%d", groups6[0].(*net.UDPAddr).Port))
		if err != nil {
			cancel()
			t.stopLocked()
			return &intErrors.TransportError{Operation: "listen udp6", Err: err}
		}
		pc := ipv6.NewPacketConn(conn)
		for _, i := range ifaces {
			for _, g := range groups6 {
				ifaceCopy := i
				if err := pc.JoinGroup(&ifaceCopy, g); err != nil {
					t.logger.Debug("join ipv6 group failed", "interface", i.Name, "group", g, "error", err)
				} else {
					joined++
				}
			}
		}
		_ = pc.SetMulticastHopLimit(255)
		_ = pc.SetMulticastLoopback(true)
		t.conn6, t.pc6, t.groups6 = conn, pc, groups6
		t.wg.Add(1)
		go t.receiveLoopV6(runCtx)
	}

	if t.conn4 == nil && t.conn6 == nil {
		cancel()
		return &intErrors.TransportError{Operation: "start", Err: fmt.Errorf("no multicast groups joined")}
	}
	if joined == 0 {
		cancel()
		t.stopLocked()
		return &intErrors.TransportError{Operation: "join", Err: fmt.Errorf("no multicast group joined on any interface")}
	}

	t.cancel = cancel
	t.running = true
	return nil
}

// selectInterfaces resolves which interfaces to join groups on: the
// explicit list, the custom filter, or the default VPN/container-excluding
// policy, in that priority order.
func (t *UDPTransport) selectInterfaces() ([]net.Interface, error) {
	if len(t.explicitInterfaces) > 0 {
		return t.explicitInterfaces, nil
	}
	if t.interfaceFilter != nil {
		all, err := net.Interfaces()
		if err != nil {
			return nil, err
		}
		var selected []net.Interface
		for _, i := range all {
			if t.interfaceFilter(i) {
				selected = append(selected, i)
			}
		}
		return selected, nil
	}
	return iface.Default()
}

// Stop leaves every joined group and stops delivery. A no-op if not running.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

func (t *UDPTransport) stopLocked() error {
	if !t.running && t.conn4 == nil && t.conn6 == nil {
		return nil
	}
	if t.cancel != nil {
		t.cancel()
	}
	var firstErr error
	if t.conn4 != nil {
		if err := t.conn4.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if t.conn6 != nil {
		if err := t.conn6.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.wg.Wait()
	t.conn4, t.conn6, t.pc4, t.pc6 = nil, nil, nil, nil
	t.running = false
	if firstErr != nil {
		return &intErrors.TransportError{Operation: "stop", Err: firstErr}
	}
	return nil
}

// Send writes packet to every group joined in Start, on whichever of
// udp4/udp6 is active.
func (t *UDPTransport) Send(ctx context.Context, packet []byte) error {
	select {
	case <-ctx.Done():
		return &intErrors.TransportError{Operation: "send", Err: ctx.Err()}
	default:
	}

	t.mu.Lock()
	pc4, groups4 := t.pc4, t.groups4
	pc6, groups6 := t.pc6, t.groups6
	t.mu.Unlock()

	var firstErr error
	for _, g := range groups4 {
		if _, err := pc4.WriteTo(packet, nil, g); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, g := range groups6 {
		if _, err := pc6.WriteTo(packet, nil, g); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return &intErrors.TransportError{Operation: "send", Err: firstErr}
	}
	return nil
}

func (t *UDPTransport) receiveLoopV4(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = t.conn4.SetReadDeadline(time.Now().Add(pollInterval))
		bufPtr := bufferpool.Get()
		n, _, src, err := t.pc4.ReadFrom(*bufPtr)
		if err != nil {
			bufferpool.Put(bufPtr)
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		t.deliver((*bufPtr)[:n], src)
		bufferpool.Put(bufPtr)
	}
}

func (t *UDPTransport) receiveLoopV6(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = t.conn6.SetReadDeadline(time.Now().Add(pollInterval))
		bufPtr := bufferpool.Get()
		n, _, src, err := t.pc6.ReadFrom(*bufPtr)
		if err != nil {
			bufferpool.Put(bufPtr)
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		t.deliver((*bufPtr)[:n], src)
		bufferpool.Put(bufPtr)
	}
}

// deliver applies the rate-limit guard (if enabled) then hands a copy of
// data to every observer — a copy because the pooled buffer is returned to
// the pool (and may be reused) as soon as this call returns.
func (t *UDPTransport) deliver(data []byte, src net.Addr) {
	if t.limiter != nil {
		host := src.String()
		if udpAddr, ok := src.(*net.UDPAddr); ok {
			host = udpAddr.IP.String()
		}
		if !t.limiter.Allow(host) {
			t.logger.Debug("dropped packet: rate limit exceeded", "source", host)
			return
		}
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	t.notify(cp, src)
}

var _ Transport = (*UDPTransport)(nil)
