// Package wire implements the cursor-based DNS wire-format codec shared by
// the record and message packages: big-endian integer reads/writes,
// length-prefixed strings, and RFC 1035 §4.1.4 name compression.
package wire

import (
	"strings"

	"github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/protocol"
)

// Reader decodes a DNS message from an immutable byte buffer. Reads only
// advance the cursor (Seek is the one way to move it elsewhere); a failed
// read never rewinds it, since the caller is expected to abandon parsing
// on the first error.
type Reader struct {
	buffer []byte
	cursor int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buffer: buf}
}

// Cursor returns the current byte offset.
func (r *Reader) Cursor() int { return r.cursor }

// Buffer returns the whole underlying buffer the Reader was constructed
// over. Used by record views that need to resolve compression pointers
// against the enclosing message rather than a standalone RDATA copy.
func (r *Reader) Buffer() []byte { return r.buffer }

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.buffer) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buffer) - r.cursor }

// Seek repositions the cursor to an absolute offset without validating
// bounds (used by callers that resolve RDATA offsets inside the whole
// message buffer; name decoding follows compression pointers without it).
func (r *Reader) Seek(offset int) { r.cursor = offset }

func (r *Reader) requireBytes(op string, n int) error {
	if r.Remaining() < n {
		return &errors.ShortBufferError{Operation: op, Offset: r.cursor, Need: n, Have: r.Remaining()}
	}
	return nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.requireBytes("read u8", 1); err != nil {
		return 0, err
	}
	v := r.buffer[r.cursor]
	r.cursor++
	return v, nil
}

// ReadU16 reads a big-endian 16-bit value.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.requireBytes("read u16", 2); err != nil {
		return 0, err
	}
	v := uint16(r.buffer[r.cursor])<<8 | uint16(r.buffer[r.cursor+1])
	r.cursor += 2
	return v, nil
}

// ReadU32 reads a big-endian 32-bit value.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.requireBytes("read u32", 4); err != nil {
		return 0, err
	}
	b := r.buffer[r.cursor : r.cursor+4]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	r.cursor += 4
	return v, nil
}

// ReadBytes copies exactly len(into) bytes starting at the cursor.
func (r *Reader) ReadBytes(into []byte) error {
	if err := r.requireBytes("read bytes", len(into)); err != nil {
		return err
	}
	copy(into, r.buffer[r.cursor:r.cursor+len(into)])
	r.cursor += len(into)
	return nil
}

// ReadRawBytes returns a copy of the next n bytes, advancing the cursor.
func (r *Reader) ReadRawBytes(n int) ([]byte, error) {
	if err := r.requireBytes("read raw bytes", n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buffer[r.cursor:r.cursor+n])
	r.cursor += n
	return out, nil
}

// ReadString reads one length-prefixed octet string (length byte, then
// that many bytes), used for individual TXT strings.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	b, err := r.ReadRawBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadStrings reads length-prefixed strings until the buffer given by
// limit (an absolute end offset) is exhausted — used for TXT RDATA, which
// has no explicit string count.
func (r *Reader) ReadStrings(limit int) ([]string, error) {
	var out []string
	for r.cursor < limit {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadName decodes a domain name per RFC 1035 §4.1.4, following
// compression pointers against the Reader's own buffer — which callers
// MUST have set to the whole enclosing message, not a standalone RDATA
// slice, so that pointers reaching back before the RDATA resolve
// correctly (see internal/record for how Record threads this through).
func (r *Reader) ReadName() (string, error) {
	name, next, err := readNameAt(r.buffer, r.cursor)
	if err != nil {
		return "", err
	}
	r.cursor = next
	return name, nil
}

// readNameAt decodes a name starting at offset within buf, returning the
// name and the offset immediately following the name's on-wire
// representation (i.e. immediately after the terminator or, if the name
// was reached by at least one pointer jump, immediately after the first
// two-byte pointer encountered).
func readNameAt(buf []byte, offset int) (string, int, error) {
	if offset < 0 || offset >= len(buf) {
		return "", offset, &errors.MalformedNameError{Offset: offset, Message: "offset out of bounds"}
	}

	var labels []string
	pos := offset
	next := -1
	jumps := 0

	for {
		if pos >= len(buf) {
			return "", offset, &errors.MalformedNameError{Offset: pos, Message: "unexpected end of message while parsing name"}
		}

		length := buf[pos]

		if length&protocol.CompressionMask == protocol.CompressionMask {
			if pos+1 >= len(buf) {
				return "", offset, &errors.MalformedNameError{Offset: pos, Message: "truncated compression pointer"}
			}
			pointer := int(length&0x3F)<<8 | int(buf[pos+1])
			if pointer >= pos {
				return "", offset, &errors.MalformedNameError{Offset: pos, Message: "compression pointer does not point backwards"}
			}
			if next < 0 {
				next = pos + 2
			}
			jumps++
			if jumps > protocol.MaxCompressionPointers {
				return "", offset, &errors.MalformedNameError{Offset: pos, Message: "too many compression pointer jumps"}
			}
			pos = pointer
			continue
		}

		if length&0xC0 != 0 {
			return "", offset, &errors.MalformedNameError{Offset: pos, Message: "reserved label length encoding"}
		}

		if length == 0 {
			if next < 0 {
				next = pos + 1
			}
			break
		}

		if length > protocol.MaxLabelLength {
			return "", offset, &errors.MalformedNameError{Offset: pos, Message: "label exceeds maximum length"}
		}
		if pos+1+int(length) > len(buf) {
			return "", offset, &errors.MalformedNameError{Offset: pos, Message: "truncated label"}
		}

		labels = append(labels, string(buf[pos+1:pos+1+int(length)]))
		pos += 1 + int(length)
	}

	name := strings.Join(labels, ".")
	if len(name) > protocol.MaxNameLength {
		return "", offset, &errors.MalformedNameError{Offset: offset, Message: "name exceeds maximum length"}
	}

	return name, next, nil
}

// ReadNameAt decodes a name at an absolute offset within buf without
// requiring a Reader — used by typed RR views that carry the whole
// message buffer plus an RDATA start offset rather than a standalone
// Reader (see internal/record.Record).
func ReadNameAt(buf []byte, offset int) (name string, next int, err error) {
	return readNameAt(buf, offset)
}
