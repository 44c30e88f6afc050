package msgstore

import (
	"encoding/binary"
	"strings"
	"testing"
)

// testStore assembles a synthetic message database in memory.
type testStore struct {
	bitmapBlocks int
	dirBlocks    int
	used         uint16
	count        uint16
	newNum       uint16
	dir          map[int]int
	blocks       [][BlockSize]byte
}

func newTestStore(bitmapBlocks, dirBlocks, dataBlocks int) *testStore {
	return &testStore{
		bitmapBlocks: bitmapBlocks,
		dirBlocks:    dirBlocks,
		dir:          make(map[int]int),
		blocks:       make([][BlockSize]byte, dataBlocks),
	}
}

func (ts *testStore) setDir(slot, block int) *testStore {
	ts.dir[slot] = block
	return ts
}

// setText packs text (CR-separated lines, as GBBS stores them) into block n.
func (ts *testStore) setText(n int, text string, next int) *testStore {
	packed := EncodePacked([]byte(text))
	if len(packed) > PayloadSize {
		panic("test block text too long")
	}
	return ts.setRaw(n, packed, next)
}

func (ts *testStore) setRaw(n int, payload []byte, next int) *testStore {
	var b [BlockSize]byte
	copy(b[:PayloadSize], payload)
	binary.LittleEndian.PutUint16(b[PayloadSize:], uint16(next))
	ts.blocks[n-1] = b
	return ts
}

func (ts *testStore) bytes() []byte {
	dirOff := HeaderSize + ts.bitmapBlocks*BlockSize
	dataOff := dirOff + ts.dirBlocks*BlockSize
	data := make([]byte, dataOff+len(ts.blocks)*BlockSize)
	data[0] = byte(ts.bitmapBlocks)
	data[1] = byte(ts.dirBlocks)
	binary.LittleEndian.PutUint16(data[2:], ts.used)
	binary.LittleEndian.PutUint16(data[4:], ts.count)
	binary.LittleEndian.PutUint16(data[6:], ts.newNum)
	for slot, block := range ts.dir {
		binary.LittleEndian.PutUint16(data[dirOff+slot*DirEntrySize+2:], uint16(block))
	}
	for i, b := range ts.blocks {
		copy(data[dataOff+i*BlockSize:], b[:])
	}
	return data
}

func (ts *testStore) load(t *testing.T) *Store {
	t.Helper()
	s, err := Load(ts.bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// fullBlock pads text with filler so it decodes to exactly one block of
// characters, the way every non-final block of a real chain is stored.
func fullBlock(text string) string {
	const chars = PayloadSize / PackedGroup * DecodedGroup
	if len(text) > chars {
		panic("test block text too long")
	}
	return text + strings.Repeat(".", chars-len(text))
}

// header builds a stored message header with CR line endings.
func header(subject, to, from, date string) string {
	return subject + "\r" + to + "\r" + from + "\rDate : " + date + "\r"
}

func contains(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
