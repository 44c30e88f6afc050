package msgstore

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Format identifies the directory semantics of a store.
type Format int

const (
	FormatBulletin Format = iota // Directory slots are message entries
	FormatEmail                  // Directory slots are user IDs
)

func (f Format) String() string {
	if f == FormatEmail {
		return "email"
	}
	return "bulletin"
}

// Store is a read-only view of a message database held in memory.
type Store struct {
	data        []byte
	Header      Header
	TotalBlocks int
}

// Open reads the whole file at path and loads it as a store.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("msgstore: failed to read %s: %w", path, err)
	}
	return Load(data)
}

// Load parses the header of data and checks that its geometry fits. The
// store keeps a reference to data, which must not be modified afterwards.
func Load(data []byte) (*Store, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.validate(len(data)); err != nil {
		return nil, err
	}
	return &Store{
		data:        data,
		Header:      h,
		TotalBlocks: (len(data) - h.DataOffset) / BlockSize,
	}, nil
}

// Size returns the length of the underlying file in bytes.
func (s *Store) Size() int { return len(s.data) }

// Format sniffs the store type. Mail databases start with 0x04; there is
// no declared format tag.
func (s *Store) Format() Format {
	if s.data[0] == EmailSentinel {
		return FormatEmail
	}
	return FormatBulletin
}

// Block returns the 128 bytes of 1-based data block n.
func (s *Store) Block(n int) ([]byte, bool) {
	if n < 1 || n > s.TotalBlocks {
		return nil, false
	}
	off := s.Header.DataOffset + (n-1)*BlockSize
	if off+BlockSize > len(s.data) {
		return nil, false
	}
	return s.data[off : off+BlockSize], true
}

// Payload returns the packed text bytes of block n.
func (s *Store) Payload(n int) ([]byte, bool) {
	b, ok := s.Block(n)
	if !ok {
		return nil, false
	}
	return b[:PayloadSize], true
}

// Next returns the chain pointer stored in the last two bytes of block n.
// Zero means end of chain.
func (s *Store) Next(n int) (int, bool) {
	b, ok := s.Block(n)
	if !ok {
		return 0, false
	}
	return int(binary.LittleEndian.Uint16(b[PayloadSize:])), true
}

// DirectoryEntry returns the block number held in directory slot i. It
// reports false once the slot would run past the end of the file.
func (s *Store) DirectoryEntry(i int) (int, bool) {
	if i < 0 || i >= s.Header.MaxDirectoryEntries {
		return 0, false
	}
	off := s.Header.DirectoryOffset + i*DirEntrySize
	if off+DirEntrySize > len(s.data) {
		return 0, false
	}
	return int(binary.LittleEndian.Uint16(s.data[off+2 : off+4])), true
}

// dense reports whether block n has enough non-zero payload bytes to be
// worth recovering.
func (s *Store) dense(n int) bool {
	p, ok := s.Payload(n)
	if !ok {
		return false
	}
	count := 0
	for _, b := range p {
		if b != 0 {
			count++
		}
	}
	return count >= minPayloadBytes
}
