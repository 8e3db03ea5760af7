package record

import (
	"fmt"
	"net"
	"strings"

	"github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/wire"
)

// ARecord interprets RDATA as an IPv4 address per RFC 1035 §3.4.1.
type ARecord struct {
	owner string
	addr  net.IP
}

// NewARecord requires at least 4 RDATA bytes.
func NewARecord(r Record) (*ARecord, error) {
	if len(r.Data) < 4 {
		return nil, &errors.MalformedRecordError{View: "A", Message: fmt.Sprintf("need 4 bytes, have %d", len(r.Data))}
	}
	return &ARecord{owner: r.Name, addr: net.IPv4(r.Data[0], r.Data[1], r.Data[2], r.Data[3])}, nil
}

func (v *ARecord) Name() string        { return v.owner }
func (v *ARecord) Type() protocol.Type { return protocol.TypeA }
func (v *ARecord) Content() string     { return v.addr.String() }
func (v *ARecord) Address() net.IP     { return v.addr }

// AAAARecord interprets RDATA as an IPv6 address.
type AAAARecord struct {
	owner string
	addr  net.IP
}

// NewAAAARecord requires at least 16 RDATA bytes.
func NewAAAARecord(r Record) (*AAAARecord, error) {
	if len(r.Data) < 16 {
		return nil, &errors.MalformedRecordError{View: "AAAA", Message: fmt.Sprintf("need 16 bytes, have %d", len(r.Data))}
	}
	addr := make(net.IP, 16)
	copy(addr, r.Data[:16])
	return &AAAARecord{owner: r.Name, addr: addr}, nil
}

func (v *AAAARecord) Name() string        { return v.owner }
func (v *AAAARecord) Type() protocol.Type { return protocol.TypeAAAA }
func (v *AAAARecord) Content() string     { return v.addr.String() }
func (v *AAAARecord) Address() net.IP     { return v.addr }

// PTRRecord interprets RDATA as a (possibly compressed) domain name: the
// record the owner name points at.
type PTRRecord struct {
	owner  string
	target string
}

// NewPTRRecord decodes the referenced name, resolving any compression
// pointer against the whole enclosing message (see Record.viewBuffer).
func NewPTRRecord(r Record) (*PTRRecord, error) {
	name, _, err := wire.ReadNameAt(r.viewBuffer(), r.viewOffset())
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "PTR", Message: err.Error()}
	}
	return &PTRRecord{owner: r.Name, target: name}, nil
}

func (v *PTRRecord) Name() string        { return v.owner }
func (v *PTRRecord) Type() protocol.Type { return protocol.TypePTR }
func (v *PTRRecord) Content() string     { return v.target }
func (v *PTRRecord) Target() string      { return v.target }

// SRVRecord interprets RDATA per RFC 2782: priority, weight, port, then a
// (possibly compressed) target name.
type SRVRecord struct {
	owner    string
	priority uint16
	weight   uint16
	port     uint16
	target   string
}

// NewSRVRecord requires at least 6 bytes before the target name.
func NewSRVRecord(r Record) (*SRVRecord, error) {
	if len(r.Data) < 6 {
		return nil, &errors.MalformedRecordError{View: "SRV", Message: fmt.Sprintf("need at least 6 bytes, have %d", len(r.Data))}
	}

	reader := wire.NewReader(r.viewBuffer())
	reader.Seek(r.viewOffset())

	priority, err := reader.ReadU16()
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "SRV", Message: err.Error()}
	}
	weight, err := reader.ReadU16()
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "SRV", Message: err.Error()}
	}
	port, err := reader.ReadU16()
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "SRV", Message: err.Error()}
	}
	target, err := reader.ReadName()
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "SRV", Message: err.Error()}
	}

	return &SRVRecord{owner: r.Name, priority: priority, weight: weight, port: port, target: target}, nil
}

func (v *SRVRecord) Name() string        { return v.owner }
func (v *SRVRecord) Type() protocol.Type { return protocol.TypeSRV }
func (v *SRVRecord) Content() string     { return fmt.Sprintf("%s:%d", v.target, v.port) }
func (v *SRVRecord) Priority() uint16    { return v.priority }
func (v *SRVRecord) Weight() uint16      { return v.weight }
func (v *SRVRecord) Port() uint16        { return v.port }
func (v *SRVRecord) Target() string      { return v.target }

// TXTRecord interprets RDATA as zero or more length-prefixed strings, each
// parsed into a key[=value] attribute per RFC 6763 §6.3/§6.4. Duplicate
// keys keep the first occurrence; keys are case-folded (RFC 6763 §6.4).
type TXTRecord struct {
	owner string
	strs  []string
	attrs map[string]string
}

// NewTXTRecord parses the TXT strings and builds the first-wins,
// case-insensitive attribute map.
func NewTXTRecord(r Record) (*TXTRecord, error) {
	limit := r.viewOffset() + len(r.Data)

	reader := wire.NewReader(r.viewBuffer())
	reader.Seek(r.viewOffset())

	strs, err := reader.ReadStrings(limit)
	if err != nil {
		return nil, &errors.MalformedRecordError{View: "TXT", Message: err.Error()}
	}

	attrs := make(map[string]string, len(strs))
	for _, s := range strs {
		key, value, _ := strings.Cut(s, "=")
		key = strings.ToLower(key)
		if _, exists := attrs[key]; exists {
			continue // first occurrence wins (DNS-SD §6.4)
		}
		attrs[key] = value
	}

	return &TXTRecord{owner: r.Name, strs: strs, attrs: attrs}, nil
}

func (v *TXTRecord) Name() string                  { return v.owner }
func (v *TXTRecord) Type() protocol.Type           { return protocol.TypeTXT }
func (v *TXTRecord) Content() string               { return strings.Join(v.strs, ",") }
func (v *TXTRecord) Strings() []string             { return v.strs }
func (v *TXTRecord) Attributes() map[string]string { return v.attrs }

// NSECRecord carries the owner name only in this profile; the type bitmap
// is not interpreted (no consumer of this module needs it: NSEC appears in
// mDNS negative responses, which a browser-only client has no use for
// beyond recognizing the record exists).
type NSECRecord struct {
	owner string
}

// NewNSECRecord never fails: the bitmap payload is ignored entirely.
func NewNSECRecord(r Record) (*NSECRecord, error) {
	return &NSECRecord{owner: r.Name}, nil
}

func (v *NSECRecord) Name() string        { return v.owner }
func (v *NSECRecord) Type() protocol.Type { return protocol.TypeNSEC }
func (v *NSECRecord) Content() string     { return "" }
