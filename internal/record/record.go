// Package record implements the generic DNS Record and its typed
// resource-record views (A, AAAA, PTR, SRV, TXT, NSEC) per RFC 1035 §4.1.2/
// §4.1.3 and RFC 6762/6763's reinterpretation of the CLASS field.
package record

import (
	"bytes"

	"github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/wire"
)

// Record is the generic wire record shared by the question and resource
// sections. A question record has TTL==0 and empty Data.
//
// Records carry a reference to the whole message buffer they were parsed
// from (msg) plus the byte offset their RDATA begins at (dataOffset).
// Typed RR views decode through that reference rather than through a
// standalone copy of Data, so that a compression pointer inside RDATA
// (e.g. an SRV or PTR target) can resolve against names earlier in the
// message. Records built programmatically (msg == nil) decode views
// directly from Data — correct because the write path never compresses.
type Record struct {
	Name            string
	Type            protocol.Type
	Class           protocol.Class
	UnicastResponse bool
	TTL             uint32
	Data            []byte

	msg        []byte
	dataOffset int
}

// NewQuestion builds a question-section record.
func NewQuestion(name string, typ protocol.Type, class protocol.Class, unicastResponse bool) Record {
	return Record{Name: name, Type: typ, Class: class, UnicastResponse: unicastResponse}
}

// NewResource builds a resource-section record (answer/authority/additional).
func NewResource(name string, typ protocol.Type, class protocol.Class, unicastResponse bool, ttl uint32, data []byte) Record {
	return Record{Name: name, Type: typ, Class: class, UnicastResponse: unicastResponse, TTL: ttl, Data: data}
}

// viewBuffer and viewOffset locate where this record's RDATA lives for the
// purpose of resolving compression pointers: the enclosing message if the
// record was parsed, or Data itself (offset 0) if it was built in memory.
func (r Record) viewBuffer() []byte {
	if r.msg != nil {
		return r.msg
	}
	return r.Data
}

func (r Record) viewOffset() int {
	if r.msg != nil {
		return r.dataOffset
	}
	return 0
}

// Equal compares two records structurally, ignoring the internal message
// buffer reference (which differs between a programmatically built record
// and one recovered by parsing a serialized form of it).
func (r Record) Equal(o Record) bool {
	return r.Name == o.Name &&
		r.Type == o.Type &&
		r.Class == o.Class &&
		r.UnicastResponse == o.UnicastResponse &&
		r.TTL == o.TTL &&
		bytes.Equal(r.Data, o.Data)
}

// ParseQuestion reads a question-section entry at reader's current cursor.
func ParseQuestion(r *wire.Reader) (Record, error) {
	name, err := r.ReadName()
	if err != nil {
		return Record{}, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return Record{}, err
	}
	classWord, err := r.ReadU16()
	if err != nil {
		return Record{}, err
	}
	class, unicastResponse := protocol.SplitClassWord(classWord)

	return Record{
		Name:            name,
		Type:            protocol.ParseType(typ),
		Class:           class,
		UnicastResponse: unicastResponse,
		msg:             r.Buffer(),
	}, nil
}

// ParseResource reads an answer/authority/additional-section entry at
// reader's current cursor.
func ParseResource(r *wire.Reader) (Record, error) {
	name, err := r.ReadName()
	if err != nil {
		return Record{}, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return Record{}, err
	}
	classWord, err := r.ReadU16()
	if err != nil {
		return Record{}, err
	}
	ttl, err := r.ReadU32()
	if err != nil {
		return Record{}, err
	}
	rdlength, err := r.ReadU16()
	if err != nil {
		return Record{}, err
	}

	class, unicastResponse := protocol.SplitClassWord(classWord)
	dataOffset := r.Cursor()

	data, err := r.ReadRawBytes(int(rdlength))
	if err != nil {
		return Record{}, err
	}

	return Record{
		Name:            name,
		Type:            protocol.ParseType(typ),
		Class:           class,
		UnicastResponse: unicastResponse,
		TTL:             ttl,
		Data:            data,
		msg:             r.Buffer(),
		dataOffset:      dataOffset,
	}, nil
}

// WriteQuestion serializes r in question form: owner name, type, class
// word (with the unicast-response bit set per r.UnicastResponse).
func WriteQuestion(w *wire.Writer, r Record) {
	w.WriteName(r.Name)
	w.WriteU16(uint16(r.Type))
	w.WriteU16(protocol.BuildClassWord(r.Class, r.UnicastResponse))
}

// WriteResource serializes r in resource-record form: owner name, type,
// class word (cache-flush bit per r.UnicastResponse), TTL, RDLENGTH-
// prefixed RDATA.
func WriteResource(w *wire.Writer, r Record) {
	w.WriteName(r.Name)
	w.WriteU16(uint16(r.Type))
	w.WriteU16(protocol.BuildClassWord(r.Class, r.UnicastResponse))
	w.WriteU32(r.TTL)
	w.WriteU16(uint16(len(r.Data)))
	w.WriteBytes(r.Data)
}

// ResourceRecord is the type-dispatch interface every typed RR view
// implements. Content returns a human-readable form, possibly empty.
type ResourceRecord interface {
	Name() string
	Type() protocol.Type
	Content() string
}

// FromResource resolves r's RDATA to a typed view per its Type, returning
// UnsupportedTypeError for any type outside the supported set (A, AAAA,
// PTR, SRV, TXT, NSEC).
func FromResource(r Record) (ResourceRecord, error) {
	switch r.Type {
	case protocol.TypeA:
		return NewARecord(r)
	case protocol.TypeAAAA:
		return NewAAAARecord(r)
	case protocol.TypePTR:
		return NewPTRRecord(r)
	case protocol.TypeSRV:
		return NewSRVRecord(r)
	case protocol.TypeTXT:
		return NewTXTRecord(r)
	case protocol.TypeNSEC:
		return NewNSECRecord(r)
	default:
		return nil, &errors.UnsupportedTypeError{Type: uint16(r.Type)}
	}
}
