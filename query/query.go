// Package query defines a DNS-SD (service, domain) query pair and builds
// the wire message that asks for it.
package query

import (
	"fmt"

	"github.com/cybergarage/go-mdns/internal/message"
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/record"
)

// Query is a (service, domain) pair, e.g. ("_http._tcp", "local").
type Query struct {
	service string
	domain  string
}

// New builds a Query for service under domain.
func New(service, domain string) Query {
	return Query{service: service, domain: domain}
}

// Service returns the service portion (e.g. "_http._tcp").
func (q Query) Service() string { return q.service }

// Domain returns the domain portion (e.g. "local").
func (q Query) Domain() string { return q.domain }

// String renders the query as the single dotted name it resolves to on
// the wire: "{service}.{domain}".
func (q Query) String() string {
	return fmt.Sprintf("%s.%s", q.service, q.domain)
}

// ServiceEnumeration is the well-known DNS-SD meta-query that enumerates
// every service type advertised on the link, per RFC 6763 §9.
var ServiceEnumeration = New("_services._dns-sd._udp", "local")

// NewMessage builds the DNS-SD query message for q: QR=0, OPCODE=0, ID=0,
// all other header bits zero, with a single PTR/IN question asking for
// q.String() and the unicast-response bit clear (plain multicast query).
//
// ID is pinned to 0 rather than randomized: RFC 6762 §18.1 says mDNS
// queries SHOULD use ID=0, and there is no response to correlate an ID
// against in a fire-and-forget multicast query.
func NewMessage(q Query) *message.Message {
	m := message.New()
	m.Questions = []record.Record{
		record.NewQuestion(q.String(), protocol.TypePTR, protocol.ClassIN, false),
	}
	return m
}
