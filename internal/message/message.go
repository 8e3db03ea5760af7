// Package message implements the DNS message codec: the 12-byte header,
// the four record sections, RFC 6762 §18 header-bit accessors, and
// parse/serialize.
package message

import (
	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/record"
	"github.com/cybergarage/go-mdns/internal/wire"
)

// Message is a complete DNS message: a 12-byte header plus four ordered
// record lists. The count fields (QDCOUNT etc.) are never stored
// separately — QDCount and friends are computed from the list lengths, so
// they can never drift out of sync with the lists they describe.
type Message struct {
	ID          uint16
	Flags       uint16
	Questions   []record.Record
	Answers     []record.Record
	Authorities []record.Record
	Additionals []record.Record
}

// New returns an empty Message with all header bits zero.
func New() *Message {
	return &Message{}
}

// QDCount, ANCount, NSCount, ARCount report the current section lengths.
func (m *Message) QDCount() uint16 { return uint16(len(m.Questions)) }
func (m *Message) ANCount() uint16 { return uint16(len(m.Answers)) }
func (m *Message) NSCount() uint16 { return uint16(len(m.Authorities)) }
func (m *Message) ARCount() uint16 { return uint16(len(m.Additionals)) }

// QR reports the Query/Response bit (bit 15).
func (m *Message) QR() bool { return m.Flags&protocol.FlagQR != 0 }

// SetQR sets the Query/Response bit.
func (m *Message) SetQR(v bool) { m.setFlag(protocol.FlagQR, v) }

// Opcode extracts bits 11-14, folding anything but Query/IQuery/Status to Query.
func (m *Message) Opcode() protocol.Opcode {
	return protocol.ParseOpcode(uint8((m.Flags >> 11) & 0x0F))
}

// SetOpcode sets bits 11-14.
func (m *Message) SetOpcode(op protocol.Opcode) {
	m.Flags = (m.Flags &^ (0x0F << 11)) | (uint16(op) << 11)
}

// AA, TC, RD report the Authoritative Answer, Truncated, and Recursion
// Desired bits.
func (m *Message) AA() bool { return m.Flags&protocol.FlagAA != 0 }
func (m *Message) TC() bool { return m.Flags&protocol.FlagTC != 0 }
func (m *Message) RD() bool { return m.Flags&protocol.FlagRD != 0 }

func (m *Message) SetAA(v bool) { m.setFlag(protocol.FlagAA, v) }
func (m *Message) SetTC(v bool) { m.setFlag(protocol.FlagTC, v) }
func (m *Message) SetRD(v bool) { m.setFlag(protocol.FlagRD, v) }

// RA, Z, AD, CD report the Recursion Available, reserved, Authentic Data,
// and Checking Disabled bits.
func (m *Message) RA() bool { return m.Flags&protocol.FlagRA != 0 }
func (m *Message) Z() bool  { return m.Flags&protocol.FlagZ != 0 }
func (m *Message) AD() bool { return m.Flags&protocol.FlagAD != 0 }
func (m *Message) CD() bool { return m.Flags&protocol.FlagCD != 0 }

func (m *Message) SetRA(v bool) { m.setFlag(protocol.FlagRA, v) }
func (m *Message) SetAD(v bool) { m.setFlag(protocol.FlagAD, v) }
func (m *Message) SetCD(v bool) { m.setFlag(protocol.FlagCD, v) }

func (m *Message) setFlag(bit uint16, v bool) {
	if v {
		m.Flags |= bit
	} else {
		m.Flags &^= bit
	}
}

// RCode extracts bits 0-3, folding anything beyond Refused(5) to NoError.
func (m *Message) RCode() protocol.RCode {
	return protocol.ParseRCode(uint8(m.Flags & 0x0F))
}

// SetRCode sets bits 0-3.
func (m *Message) SetRCode(rc protocol.RCode) {
	m.Flags = (m.Flags &^ 0x0F) | uint16(rc)
}

// Parse decodes a complete DNS message from wire format.
func Parse(buf []byte) (*Message, error) {
	r := wire.NewReader(buf)

	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	qdCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	anCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	nsCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	arCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	m := &Message{ID: id, Flags: flags}

	m.Questions = make([]record.Record, 0, qdCount)
	for i := uint16(0); i < qdCount; i++ {
		q, err := record.ParseQuestion(r)
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}

	for _, count := range []struct {
		n    uint16
		dest *[]record.Record
	}{
		{anCount, &m.Answers},
		{nsCount, &m.Authorities},
		{arCount, &m.Additionals},
	} {
		section := make([]record.Record, 0, count.n)
		for i := uint16(0); i < count.n; i++ {
			rr, err := record.ParseResource(r)
			if err != nil {
				return nil, err
			}
			section = append(section, rr)
		}
		*count.dest = section
	}

	return m, nil
}

// Serialize encodes m to wire format. Count fields are derived from the
// section lengths at the moment of serialization, so they are always
// consistent with what follows.
func (m *Message) Serialize() []byte {
	w := wire.NewWriter()

	w.WriteU16(m.ID)
	w.WriteU16(m.Flags)
	w.WriteU16(m.QDCount())
	w.WriteU16(m.ANCount())
	w.WriteU16(m.NSCount())
	w.WriteU16(m.ARCount())

	for _, q := range m.Questions {
		record.WriteQuestion(w, q)
	}
	for _, a := range m.Answers {
		record.WriteResource(w, a)
	}
	for _, a := range m.Authorities {
		record.WriteResource(w, a)
	}
	for _, a := range m.Additionals {
		record.WriteResource(w, a)
	}

	return w.Bytes()
}

// FindRecord returns the first record named name across all four
// sections, searched in order {questions, answers, authorities,
// additionals}.
func (m *Message) FindRecord(name string) (record.Record, bool) {
	for _, section := range [][]record.Record{m.Questions, m.Answers, m.Authorities, m.Additionals} {
		for _, r := range section {
			if r.Name == name {
				return r, true
			}
		}
	}
	return record.Record{}, false
}

// ResourceRecords returns a flattened view over answers ∪ authorities ∪
// additionals, each resolved through its Type to a typed RR view. Records
// whose type is unsupported are silently dropped — the raw Record remains
// reachable through Answers/Authorities/Additionals.
func (m *Message) ResourceRecords() []record.ResourceRecord {
	var out []record.ResourceRecord
	for _, section := range [][]record.Record{m.Answers, m.Authorities, m.Additionals} {
		for _, r := range section {
			rr, err := record.FromResource(r)
			if err != nil {
				continue
			}
			out = append(out, rr)
		}
	}
	return out
}

// Clone returns a field-wise copy of m: each section gets its own slice,
// so appending to or replacing records in the clone leaves m untouched,
// but each Record's Data bytes are shared with m. This is deliberately not
// serialize-then-parse: that round trip would silently drop any record
// whose type is unsupported, which is unacceptable for a value a caller
// might hold onto (e.g. for later logging) independent of this module's
// supported-type set.
func (m *Message) Clone() *Message {
	clone := &Message{ID: m.ID, Flags: m.Flags}
	clone.Questions = append([]record.Record(nil), m.Questions...)
	clone.Answers = append([]record.Record(nil), m.Answers...)
	clone.Authorities = append([]record.Record(nil), m.Authorities...)
	clone.Additionals = append([]record.Record(nil), m.Additionals...)
	return clone
}
