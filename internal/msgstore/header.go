package msgstore

import (
	"encoding/binary"
	"fmt"
)

// Header is the 8-byte MSGINFO header plus the offsets derived from it.
type Header struct {
	BitmapBlocks     uint8
	DirectoryBlocks  uint8
	UsedBlocks       uint16
	MessageCount     uint16
	NewMessageNumber uint16

	BitmapOffset        int
	DirectoryOffset     int
	DataOffset          int
	MaxDirectoryEntries int
}

// ParseHeader decodes the MSGINFO header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTruncatedHeader
	}
	h := Header{
		BitmapBlocks:     data[0],
		DirectoryBlocks:  data[1],
		UsedBlocks:       binary.LittleEndian.Uint16(data[2:4]),
		MessageCount:     binary.LittleEndian.Uint16(data[4:6]),
		NewMessageNumber: binary.LittleEndian.Uint16(data[6:8]),
		BitmapOffset:     HeaderSize,
	}
	h.DirectoryOffset = HeaderSize + int(h.BitmapBlocks)*BlockSize
	h.DataOffset = h.DirectoryOffset + int(h.DirectoryBlocks)*BlockSize
	h.MaxDirectoryEntries = int(h.DirectoryBlocks) * BlockSize / DirEntrySize
	return h, nil
}

// validate checks that the geometry fits inside a file of the given size.
func (h Header) validate(size int) error {
	if h.DataOffset > size {
		return fmt.Errorf("%w: data offset 0x%x, file size %d", ErrBadGeometry, h.DataOffset, size)
	}
	return nil
}
