package record

import (
	"net"
	"testing"

	"github.com/cybergarage/go-mdns/internal/protocol"
	"github.com/cybergarage/go-mdns/internal/wire"
)

func TestRecordEqualIgnoresMessageReference(t *testing.T) {
	built := NewResource("host.local", protocol.TypeA, protocol.ClassIN, false, 120, net.IPv4(192, 168, 1, 1).To4())

	w := wire.NewWriter()
	WriteResource(w, built)
	r := wire.NewReader(w.Bytes())
	parsed, err := ParseResource(r)
	if err != nil {
		t.Fatalf("ParseResource() error = %v", err)
	}

	if !built.Equal(parsed) {
		t.Errorf("built record and its round-tripped form are not Equal:\nbuilt:  %+v\nparsed: %+v", built, parsed)
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	q := NewQuestion("_http._tcp.local", protocol.TypePTR, protocol.ClassIN, true)

	w := wire.NewWriter()
	WriteQuestion(w, q)

	r := wire.NewReader(w.Bytes())
	got, err := ParseQuestion(r)
	if err != nil {
		t.Fatalf("ParseQuestion() error = %v", err)
	}

	if !q.Equal(got) {
		t.Errorf("ParseQuestion() = %+v, want %+v", got, q)
	}
	if !got.UnicastResponse {
		t.Error("UnicastResponse bit lost in round trip")
	}
}

func TestFromResourceUnsupportedType(t *testing.T) {
	r := NewResource("host.local", protocol.TypeCNAME, protocol.ClassIN, false, 0, nil)
	if _, err := FromResource(r); err == nil {
		t.Fatal("FromResource() on CNAME: want UnsupportedTypeError, got nil")
	}
}

func TestARecordRequiresFourBytes(t *testing.T) {
	r := NewResource("host.local", protocol.TypeA, protocol.ClassIN, false, 0, []byte{1, 2, 3})
	if _, err := NewARecord(r); err == nil {
		t.Fatal("NewARecord() with 3 RDATA bytes: want error, got nil")
	}
}

// TestSRVRecordTargetThroughCompression is the architectural regression
// test: an SRV target compressed against a name earlier in the whole
// message must resolve correctly, not just against RDATA in isolation.
func TestSRVRecordTargetThroughCompression(t *testing.T) {
	w := wire.NewWriter()
	w.WriteName("printer.local") // offset 0, referenced by the pointer below

	rdataStart := w.Len()
	w.WriteU16(0)      // priority
	w.WriteU16(0)      // weight
	w.WriteU16(8080)   // port
	w.WriteU16(0xC000) // pointer back to offset 0 ("printer.local")

	buf := w.Bytes()
	srvRecord := Record{
		Name: "My Printer._http._tcp.local",
		Type: protocol.TypeSRV,
		Data: buf[rdataStart:],
	}
	// Simulate what ParseResource would have set: the whole message and
	// the absolute RDATA offset within it.
	srvRecord = withView(srvRecord, buf, rdataStart)

	view, err := NewSRVRecord(srvRecord)
	if err != nil {
		t.Fatalf("NewSRVRecord() error = %v", err)
	}
	if view.Target() != "printer.local" {
		t.Errorf("Target() = %q, want %q", view.Target(), "printer.local")
	}
	if view.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", view.Port())
	}
}

// withView is a test helper standing in for what ParseResource populates;
// record's exported surface has no public setter since only parsing
// should ever produce a non-nil msg.
func withView(r Record, msg []byte, dataOffset int) Record {
	r.msg = msg
	r.dataOffset = dataOffset
	return r
}

func TestTXTRecordFirstKeyWinsCaseFold(t *testing.T) {
	w := wire.NewWriter()
	rdataStart := w.Len()
	w.WriteString("Path=/one")
	w.WriteString("PATH=/two")
	buf := w.Bytes()

	r := withView(Record{Name: "host.local", Type: protocol.TypeTXT, Data: buf[rdataStart:]}, buf, rdataStart)

	view, err := NewTXTRecord(r)
	if err != nil {
		t.Fatalf("NewTXTRecord() error = %v", err)
	}

	got, ok := view.Attributes()["path"]
	if !ok {
		t.Fatal(`Attributes()["path"] missing`)
	}
	if got != "/one" {
		t.Errorf(`Attributes()["path"] = %q, want "/one" (first occurrence wins)`, got)
	}
}
