package msgstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseHeaderTruncated(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		if _, err := ParseHeader(make([]byte, n)); !errors.Is(err, ErrTruncatedHeader) {
			t.Errorf("ParseHeader(%d bytes) error = %v, want ErrTruncatedHeader", n, err)
		}
	}
}

func TestParseHeaderGeometry(t *testing.T) {
	data := []byte{2, 3, 0x34, 0x12, 0x05, 0x00, 0xff, 0xff}
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.BitmapBlocks != 2 || h.DirectoryBlocks != 3 {
		t.Errorf("block counts = %d/%d, want 2/3", h.BitmapBlocks, h.DirectoryBlocks)
	}
	if h.UsedBlocks != 0x1234 || h.MessageCount != 5 || h.NewMessageNumber != 0xffff {
		t.Errorf("counters = %#x/%d/%#x", h.UsedBlocks, h.MessageCount, h.NewMessageNumber)
	}
	if h.DirectoryOffset != 8+2*128 {
		t.Errorf("DirectoryOffset = %d, want %d", h.DirectoryOffset, 8+2*128)
	}
	if h.DataOffset != 8+5*128 {
		t.Errorf("DataOffset = %d, want %d", h.DataOffset, 8+5*128)
	}
	if h.MaxDirectoryEntries != 96 {
		t.Errorf("MaxDirectoryEntries = %d, want 96", h.MaxDirectoryEntries)
	}
}

func TestLoadRejectsBadGeometry(t *testing.T) {
	data := make([]byte, 100)
	data[0] = 1 // bitmap alone runs past the end
	if _, err := Load(data); !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("Load error = %v, want ErrBadGeometry", err)
	}
}

func TestLoadTotalBlocks(t *testing.T) {
	data := newTestStore(1, 1, 3).bytes()
	data = append(data, make([]byte, 50)...) // partial trailing block
	s, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.TotalBlocks != 3 {
		t.Errorf("TotalBlocks = %d, want 3", s.TotalBlocks)
	}
	if _, ok := s.Block(0); ok {
		t.Error("block 0 should not exist")
	}
	if _, ok := s.Block(4); ok {
		t.Error("block 4 should be out of range")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "MSG1")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open error = %v, want not-exist", err)
	}
}

func TestFormatSniff(t *testing.T) {
	if f := newTestStore(1, 1, 1).load(t).Format(); f != FormatBulletin {
		t.Errorf("bitmap=1 format = %v, want bulletin", f)
	}
	if f := newTestStore(4, 1, 1).load(t).Format(); f != FormatEmail {
		t.Errorf("bitmap=4 format = %v, want email", f)
	}
}

func TestDirectoryEntryStopsAtEndOfFile(t *testing.T) {
	// Directory area claims one block but the file ends halfway through it.
	data := newTestStore(0, 0, 0).bytes()
	data[1] = 1
	data = append(data, make([]byte, 64)...)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	s := &Store{data: data, Header: h}
	if _, ok := s.DirectoryEntry(15); !ok {
		t.Error("slot 15 fits in the file and should be readable")
	}
	if _, ok := s.DirectoryEntry(16); ok {
		t.Error("slot 16 runs past the end of the file")
	}
}
