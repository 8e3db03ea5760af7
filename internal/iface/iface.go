// Package iface selects the network interfaces a transport should join
// mDNS's multicast groups on.
package iface

import "net"

// Filter reports whether an interface should be used for mDNS.
type Filter func(net.Interface) bool

// Default returns the interfaces suitable for mDNS multicast: up,
// multicast-capable, not loopback, and not a VPN or container bridge
// interface. This is the zero-configuration behavior; callers needing
// different selection should supply an explicit list or a Filter.
func Default() ([]net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	selected := make([]net.Interface, 0, len(all))
	for _, i := range all {
		if DefaultFilter(i) {
			selected = append(selected, i)
		}
	}
	return selected, nil
}

// DefaultFilter implements the zero-configuration selection policy: up,
// multicast, not loopback, not a recognized VPN or container interface.
func DefaultFilter(i net.Interface) bool {
	if i.Flags&net.FlagUp == 0 || i.Flags&net.FlagMulticast == 0 {
		return false
	}
	if i.Flags&net.FlagLoopback != 0 {
		return false
	}
	if isVPN(i.Name) || isContainer(i.Name) {
		return false
	}
	return true
}

var vpnPrefixes = []string{"utun", "tun", "ppp", "wg", "tailscale", "wireguard"}

func isVPN(name string) bool {
	for _, p := range vpnPrefixes {
		if hasPrefix(name, p) {
			return true
		}
	}
	return false
}

var containerPrefixes = []string{"veth", "br-"}

func isContainer(name string) bool {
	if name == "docker0" {
		return true
	}
	for _, p := range containerPrefixes {
		if hasPrefix(name, p) {
			return true
		}
	}
	return false
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
