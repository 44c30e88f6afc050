package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

func bulletinResult() *msgstore.Result {
	return &msgstore.Result{
		Format: msgstore.FormatBulletin,
		Header: msgstore.Header{
			BitmapBlocks:        1,
			DirectoryBlocks:     1,
			UsedBlocks:          5,
			MessageCount:        1,
			NewMessageNumber:    9,
			BitmapOffset:        8,
			DirectoryOffset:     136,
			DataOffset:          264,
			MaxDirectoryEntries: 32,
		},
		FileSize:      264 + 25*msgstore.BlockSize,
		TotalBlocks:   25,
		Active:        []msgstore.Record{{Class: msgstore.Active, Block: 1}},
		ActiveBlocks:  []int{1, 2},
		Deleted:       []msgstore.Record{{Class: msgstore.Deleted, Block: 4}},
		DeletedBlocks: []int{4, 5},
		Orphaned:      []msgstore.Record{{Class: msgstore.Orphaned, Block: 7}},
	}
}

func TestWriteAnalysisBulletin(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysis(&buf, "B1", bulletinResult()); err != nil {
		t.Fatalf("WriteAnalysis: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "\x1b[") {
		t.Error("analysis written to a buffer contains ANSI escapes")
	}
	for _, want := range []string{
		"=== Database Analysis: B1 ===\n\nFormat: BULLETIN\n",
		"File size: 3464 bytes\n",
		"  Bitmap blocks: 1 (128 bytes)\n",
		"  New message number: 9\n",
		"  0x008-0x087: Bitmap (1 blocks)\n",
		"  0x088-0x107: Directory (1 blocks, max 32 entries)\n",
		"  0x108+: Data blocks\n",
		"Data area: 3200 bytes\nTotal blocks: 25\n",
		"Active messages: 1\nDeleted messages: 1\nOrphaned blocks: 1\n",
		"  Active header blocks: 1\n  Active chain blocks: 1\n",
		"  Deleted header blocks: 1\n  Deleted chain blocks: 1\n",
		"  Orphaned blocks: 1\n  Unused blocks: 20\n  Total: 25\n",
		"Usage: 8.0% active\n",
		"[H][C][ ][D][d][ ][o]" + strings.Repeat("[ ]", 13) + "  20\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("analysis missing %q\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, strings.Repeat("[ ]", 5)+"\n") {
		t.Errorf("block map does not end with the partial row:\n%q", out[len(out)-40:])
	}
}

func TestWriteAnalysisMail(t *testing.T) {
	res := bulletinResult()
	res.Format = msgstore.FormatEmail
	res.Deleted, res.Orphaned = nil, nil
	res.AllocatedBlocks = []int{1, 2, 3, 4, 5}

	var buf bytes.Buffer
	WriteAnalysis(&buf, "MAIL", res)
	out := buf.String()

	for _, want := range []string{
		"Format: EMAIL\n",
		"Orphaned blocks: 0\nBlocks allocated: 5\nBlocks unused: 20\nUsage: 20.0%\n",
		"Email format: Directory entries map to user IDs\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("analysis missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Block Map") {
		t.Error("mail analysis should not draw a block map")
	}
}

func TestPercentEmptyStore(t *testing.T) {
	if got := percent(3, 0); got != 0 {
		t.Errorf("percent(3, 0) = %v", got)
	}
}
