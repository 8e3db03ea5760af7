// Package bufferpool provides reusable receive buffers for UDP reads, so a
// busy transport doesn't allocate a fresh 9000-byte buffer per packet.
package bufferpool

import "sync"

// maxPacketSize is the largest mDNS packet this module accepts, per RFC
// 6762 §17's allowance for jumbo-frame-sized messages.
const maxPacketSize = 9000

var pool = sync.Pool{
	New: func() any {
		buf := make([]byte, maxPacketSize)
		return &buf
	},
}

// Get returns a pointer to a maxPacketSize-byte buffer. Callers must return
// it via Put once done (typically via defer).
func Get() *[]byte {
	return pool.Get().(*[]byte)
}

// Put returns buf to the pool, zeroing it first so no packet contents leak
// into the next caller to receive it from Get.
func Put(buf *[]byte) {
	b := *buf
	for i := range b {
		b[i] = 0
	}
	pool.Put(buf)
}
