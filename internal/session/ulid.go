package session

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Session ids are ULIDs: a 48-bit millisecond timestamp, a 16-bit
// in-millisecond sequence and 64 random bits, Crockford Base32 encoded.
// Ids from one process sort in creation order.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu   sync.Mutex
	lastMS uint64
	seq    uint16
)

func newID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ms := uint64(time.Now().UnixMilli())
	if ms == lastMS {
		seq++
	} else {
		lastMS = ms
		seq = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ms<<16)
	binary.BigEndian.PutUint16(b[6:8], seq)
	rand.Read(b[8:])
	return encodeID(b)
}

// encodeID writes 128 bits as 26 Base32 characters, most significant first.
func encodeID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
