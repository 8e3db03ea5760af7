package service

import (
	"net"
	"testing"

	"github.com/cybergarage/go-mdns/internal/message"
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/record"
	"github.com/cybergarage/go-mdns/internal/wire"
)

func srvData(t *testing.T, target string, port uint16) []byte {
	t.Helper()
	w := wire.NewWriter()
	w.WriteU16(0) // priority
	w.WriteU16(0) // weight
	w.WriteU16(port)
	w.WriteName(target)
	return w.Bytes()
}

func txtData(t *testing.T, pairs ...string) []byte {
	t.Helper()
	w := wire.NewWriter()
	for _, p := range pairs {
		w.WriteString(p)
	}
	return w.Bytes()
}

func TestFromMessageAggregatesAllRecordTypes(t *testing.T) {
	owner := "My Printer._http._tcp.local"

	m := message.New()
	m.Answers = []record.Record{
		record.NewResource(owner, protocol.TypeSRV, protocol.ClassIN, false, 120, srvData(t, "printer.local", 8080)),
		record.NewResource(owner, protocol.TypeTXT, protocol.ClassIN, false, 120, txtData(t, "path=/", "txtvers=1")),
		record.NewResource("printer.local", protocol.TypeA, protocol.ClassIN, false, 120, net.IPv4(192, 168, 1, 50).To4()),
	}

	svc := FromMessage(m)

	if svc.Name != "My Printer" {
		t.Errorf("Name = %q, want %q", svc.Name, "My Printer")
	}
	if svc.Domain != "_http._tcp.local" {
		t.Errorf("Domain = %q, want %q", svc.Domain, "_http._tcp.local")
	}
	if svc.Host != "printer.local" {
		t.Errorf("Host = %q, want %q", svc.Host, "printer.local")
	}
	if svc.Port != 8080 {
		t.Errorf("Port = %d, want 8080", svc.Port)
	}
	if len(svc.IPAddrs) != 1 || !svc.IPAddrs[0].Equal(net.IPv4(192, 168, 1, 50)) {
		t.Errorf("IPAddrs = %v, want [192.168.1.50]", svc.IPAddrs)
	}
	if svc.Attrs["path"] != "/" || svc.Attrs["txtvers"] != "1" {
		t.Errorf("Attrs = %v, want path=/ txtvers=1", svc.Attrs)
	}
}

func TestFromMessageAOnlyLeavesSRVFieldsEmpty(t *testing.T) {
	m := message.New()
	m.Answers = []record.Record{
		record.NewResource("host.local", protocol.TypeA, protocol.ClassIN, false, 120, net.IPv4(10, 0, 0, 1).To4()),
	}

	svc := FromMessage(m)
	if svc.Host != "" || svc.Port != 0 || svc.Name != "" {
		t.Errorf("A-only Service has non-empty SRV fields: %+v", svc)
	}
	if len(svc.IPAddrs) != 1 {
		t.Fatalf("IPAddrs = %v, want 1 entry", svc.IPAddrs)
	}
}

func TestSplitSRVOwner(t *testing.T) {
	tests := []struct {
		owner      string
		wantName   string
		wantDomain string
	}{
		{"My Printer._http._tcp.local", "My Printer", "_http._tcp.local"},
		{"_http._tcp.local", "", "_http._tcp.local"},
		{"plainhost.local", "plainhost", "local"},
		{"plainhost", "plainhost", ""},
	}

	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			name, domain := splitSRVOwner(tt.owner)
			if name != tt.wantName || domain != tt.wantDomain {
				t.Errorf("splitSRVOwner(%q) = (%q, %q), want (%q, %q)", tt.owner, name, domain, tt.wantName, tt.wantDomain)
			}
		})
	}
}
