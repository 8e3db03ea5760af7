package wire

import (
	"bytes"
	"testing"
)

func TestReaderReadU16(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x00})
	got, err := r.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16() error = %v", err)
	}
	if got != 0x0102 {
		t.Errorf("ReadU16() = %#x, want 0x0102", got)
	}
}

// TestReaderShortBuffer covers RFC 1035 §4.1.1's implicit requirement that
// a truncated header fails rather than silently reading garbage.
func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadU16(); err == nil {
		t.Fatal("ReadU16() on 1-byte buffer: want error, got nil")
	}
}

func TestWriterReadNameRoundTrip(t *testing.T) {
	tests := []string{"local", "_http._tcp.local", "My Printer._http._tcp.local", "", "."}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			w := NewWriter()
			w.WriteName(name)

			r := NewReader(w.Bytes())
			got, err := r.ReadName()
			if err != nil {
				t.Fatalf("ReadName() error = %v", err)
			}

			want := name
			if name == "" || name == "." {
				want = ""
			}
			if got != want {
				t.Errorf("ReadName() = %q, want %q", got, want)
			}
			if r.Remaining() != 0 {
				t.Errorf("Remaining() = %d, want 0", r.Remaining())
			}
		})
	}
}

// TestReadNameCompressionPointer builds a message by hand with a second
// name that points back at the first, mirroring how an mDNS responder
// compresses repeated owner names (RFC 1035 §4.1.4).
func TestReadNameCompressionPointer(t *testing.T) {
	w := NewWriter()
	w.WriteName("printer.local") // offset 0
	pointerOffset := w.Len()
	w.WriteU16(0xC000) // pointer to offset 0

	r := NewReader(w.Bytes())
	r.Seek(pointerOffset)

	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName() error = %v", err)
	}
	if got != "printer.local" {
		t.Errorf("ReadName() via pointer = %q, want %q", got, "printer.local")
	}
}

func TestReadNameRejectsForwardPointer(t *testing.T) {
	buf := []byte{0xC0, 0x05, 0x00, 0x00, 0x00, 0x00}
	if _, _, err := readNameAt(buf, 0); err == nil {
		t.Fatal("readNameAt() with forward pointer: want error, got nil")
	}
}

func TestReadNameRejectsPointerLoop(t *testing.T) {
	// Two pointers that point at each other.
	buf := []byte{0xC0, 0x02, 0xC0, 0x00}
	if _, _, err := readNameAt(buf, 0); err == nil {
		t.Fatal("readNameAt() with pointer loop: want error, got nil")
	}
}

func TestWriteStringReadStrings(t *testing.T) {
	w := NewWriter()
	w.WriteString("txtvers=1")
	w.WriteString("path=/")

	r := NewReader(w.Bytes())
	got, err := r.ReadStrings(r.Len())
	if err != nil {
		t.Fatalf("ReadStrings() error = %v", err)
	}

	want := []string{"txtvers=1", "path=/"}
	if len(got) != len(want) {
		t.Fatalf("ReadStrings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReadStrings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPatchU16At(t *testing.T) {
	w := NewWriter()
	w.WriteU16(0)
	w.WriteBytes([]byte{0xFF})
	w.PatchU16At(0, 0x1234)

	want := []byte{0x12, 0x34, 0xFF}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", w.Bytes(), want)
	}
}
