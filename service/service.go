// Package service aggregates the PTR/SRV/TXT/A/AAAA records carried by one
// mDNS response Message into a single addressable Service description.
package service

import (
	"net"
	"strings"

	"github.com/cybergarage/go-mdns/internal/message"
	"github.com/cybergarage/go-mdns/internal/record"
)

// Service is the discovered-service description built from one Message.
// Name is the service instance label, Domain is the service type/protocol
// portion of the SRV owner name (e.g. "_http._tcp.local"), Host is the SRV
// target, IPAddrs accumulates every A/AAAA address seen (duplicates
// permitted; order of arrival preserved), and Attrs is the most recently
// seen TXT record's parsed attribute map.
type Service struct {
	Name    string
	Domain  string
	Host    string
	Port    uint16
	IPAddrs []net.IP
	Attrs   map[string]string
}

// FromMessage builds a Service by walking every resource record in msg's
// answer/authority/additional sections. A Service is complete even when
// some of SRV/TXT/A/AAAA are absent — e.g. an A-only response yields a
// Service with empty Host/Port/Attrs, per §4.7.
func FromMessage(msg *message.Message) Service {
	var svc Service

	for _, rr := range msg.ResourceRecords() {
		switch v := rr.(type) {
		case *record.SRVRecord:
			svc.Host = v.Target()
			svc.Port = v.Port()
			svc.Name, svc.Domain = splitSRVOwner(v.Name())
		case *record.TXTRecord:
			svc.Attrs = v.Attributes()
		case *record.ARecord:
			svc.IPAddrs = append(svc.IPAddrs, v.Address())
		case *record.AAAARecord:
			svc.IPAddrs = append(svc.IPAddrs, v.Address())
		}
	}

	return svc
}

// splitSRVOwner splits an SRV owner name of the conventional DNS-SD form
// "<instance>._<proto>._<transport>.<domain>" into the instance label and
// the service-type-qualified domain remainder. The split point is the
// first label beginning with '_'; everything before it is the instance,
// everything from it onward (unchanged) is the domain. Names with no
// underscore-prefixed label (not a DNS-SD SRV owner) fall back to
// splitting at the first dot, so a bare hostname still yields a non-empty
// domain rather than an empty one.
func splitSRVOwner(owner string) (name, domain string) {
	labels := strings.Split(owner, ".")

	for i, label := range labels {
		if strings.HasPrefix(label, "_") {
			return strings.Join(labels[:i], "."), strings.Join(labels[i:], ".")
		}
	}

	if len(labels) > 1 {
		return labels[0], strings.Join(labels[1:], ".")
	}
	return owner, ""
}
