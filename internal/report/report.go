// Package report renders the analysis view of a scanned message store:
// header fields, file layout, recovery counts and, for bulletin stores, a
// map of how every data block was used.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

const mapRowLength = 20

// markerColors maps block roles to ANSI colors on the block map.
var markerColors = map[msgstore.BlockRole]string{
	msgstore.RoleActiveHeader:  "10", // Light green
	msgstore.RoleActiveChain:   "2",  // Green
	msgstore.RoleDeletedHeader: "9",  // Light red
	msgstore.RoleDeletedChain:  "1",  // Red
	msgstore.RoleOrphaned:      "11", // Yellow
}

// WriteAnalysis writes the analysis of res to w. name is the store's path
// as given by the user. Block map colors are only emitted when w is a
// color-capable terminal.
func WriteAnalysis(w io.Writer, name string, res *msgstore.Result) error {
	r := lipgloss.NewRenderer(w)
	var b strings.Builder
	h := res.Header

	fmt.Fprintf(&b, "=== Database Analysis: %s ===\n\n", name)
	fmt.Fprintf(&b, "Format: %s\n", strings.ToUpper(res.Format.String()))
	fmt.Fprintf(&b, "File size: %d bytes\n", res.FileSize)

	fmt.Fprintf(&b, "\nHeader (MSGINFO):\n")
	fmt.Fprintf(&b, "  Bitmap blocks: %d (%d bytes)\n", h.BitmapBlocks, int(h.BitmapBlocks)*msgstore.BlockSize)
	fmt.Fprintf(&b, "  Directory blocks: %d (%d bytes)\n", h.DirectoryBlocks, int(h.DirectoryBlocks)*msgstore.BlockSize)
	fmt.Fprintf(&b, "  Used data blocks: %d\n", h.UsedBlocks)
	fmt.Fprintf(&b, "  Message count: %d\n", h.MessageCount)
	fmt.Fprintf(&b, "  New message number: %d\n", h.NewMessageNumber)

	fmt.Fprintf(&b, "\nFile layout:\n")
	fmt.Fprintf(&b, "  0x000-0x007: Header (%d bytes)\n", msgstore.HeaderSize)
	fmt.Fprintf(&b, "  0x%03x-0x%03x: Bitmap (%d blocks)\n", h.BitmapOffset, h.DirectoryOffset-1, h.BitmapBlocks)
	fmt.Fprintf(&b, "  0x%03x-0x%03x: Directory (%d blocks, max %d entries)\n",
		h.DirectoryOffset, h.DataOffset-1, h.DirectoryBlocks, h.MaxDirectoryEntries)
	fmt.Fprintf(&b, "  0x%03x+: Data blocks\n", h.DataOffset)

	fmt.Fprintf(&b, "\nData area: %d bytes\n", res.FileSize-h.DataOffset)
	fmt.Fprintf(&b, "Total blocks: %d\n\n", res.TotalBlocks)

	fmt.Fprintf(&b, "Active messages: %d\n", len(res.Active))
	fmt.Fprintf(&b, "Deleted messages: %d\n", len(res.Deleted))
	fmt.Fprintf(&b, "Orphaned blocks: %d\n", len(res.Orphaned))

	if res.Format == msgstore.FormatEmail {
		writeMailUsage(&b, res)
	} else {
		writeBreakdown(&b, res)
		writeBlockMap(&b, r, res)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: failed to write analysis: %w", err)
	}
	return nil
}

func writeBreakdown(b *strings.Builder, res *msgstore.Result) {
	bd := res.Breakdown()
	fmt.Fprintf(b, "\nBlock breakdown:\n")
	fmt.Fprintf(b, "  Active header blocks: %d\n", bd.ActiveHeaders)
	fmt.Fprintf(b, "  Active chain blocks: %d\n", bd.ActiveChain)
	fmt.Fprintf(b, "  Deleted header blocks: %d\n", bd.DeletedHeaders)
	fmt.Fprintf(b, "  Deleted chain blocks: %d\n", bd.DeletedChain)
	fmt.Fprintf(b, "  Orphaned blocks: %d\n", bd.Orphaned)
	fmt.Fprintf(b, "  Unused blocks: %d\n", bd.Unused)
	fmt.Fprintf(b, "  Total: %d\n", bd.Total)
	fmt.Fprintf(b, "\nUsage: %.1f%% active\n\n", percent(len(res.ActiveBlocks), res.TotalBlocks))
}

func writeBlockMap(b *strings.Builder, r *lipgloss.Renderer, res *msgstore.Result) {
	styles := make(map[msgstore.BlockRole]lipgloss.Style, len(markerColors))
	for role, color := range markerColors {
		styles[role] = r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}

	b.WriteString("=== Block Map ===\n")
	b.WriteString("Legend: [H]=Active header, [C]=Active chain, [D]=Deleted header, [d]=Deleted chain\n")
	b.WriteString("        [o]=Orphaned, [ ]=Unused\n\n")

	roles := res.BlockRoles()
	for n := 1; n <= res.TotalBlocks; n++ {
		marker := string(roles[n])
		if style, ok := styles[roles[n]]; ok {
			marker = style.Render(marker)
		}
		b.WriteString("[" + marker + "]")
		if n%mapRowLength == 0 {
			fmt.Fprintf(b, "  %d\n", n)
		}
	}
	b.WriteString("\n")
}

func writeMailUsage(b *strings.Builder, res *msgstore.Result) {
	allocated := len(res.AllocatedBlocks)
	fmt.Fprintf(b, "Blocks allocated: %d\n", allocated)
	fmt.Fprintf(b, "Blocks unused: %d\n", res.TotalBlocks-allocated)
	fmt.Fprintf(b, "Usage: %.1f%%\n\n", percent(allocated, res.TotalBlocks))
	b.WriteString("Email format: Directory entries map to user IDs\n")
	b.WriteString("Messages are EOT-separated (0x04) within user chains\n")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
