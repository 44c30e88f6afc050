package msgstore

import (
	"strings"

	"github.com/stlalpha/gbbsrecover/internal/logging"
)

// Chain is the decoded text of a block chain and the blocks it consumed.
type Chain struct {
	Text   string
	Blocks []int // Consumed blocks in visit order
}

// Follow walks the chain starting at block start and concatenates the
// decoded payloads. It stops at the end of the chain, at a block already
// owned in claims, at a block number outside the data area, at a pointer
// back into the chain, or at a continuation block that is itself the start
// of another message. A block pointing at itself is continued into the
// next sequential block when that block holds plausible continuation text.
// The result is cut at the first NUL. A nil claims behaves as empty.
func (s *Store) Follow(start int, claims *ClaimSet) Chain {
	var (
		parts   []string
		blocks  []int
		visited = make(map[int]bool)
		current = start
		first   = true
	)

	for current != 0 && !visited[current] {
		if claims.Claimed(current) {
			logging.Debug("msgstore: chain from %d stops at claimed block %d", start, current)
			break
		}
		visited[current] = true

		payload, ok := s.Payload(current)
		if !ok {
			logging.Debug("msgstore: chain from %d points outside data area (block %d)", start, current)
			break
		}
		blocks = append(blocks, current)
		next, _ := s.Next(current)

		decoded := DecodePacked(payload, false)
		if !first {
			if IsMessageStart(decoded) {
				logging.Debug("msgstore: chain from %d runs into message start at block %d", start, current)
				break
			}
			decoded = strings.TrimLeft(decoded, "\x00")
		}
		parts = append(parts, decoded)
		first = false

		if next == 0 {
			break
		}
		if next == current {
			if seq, ok := s.probeSequential(current, claims); ok {
				logging.Debug("msgstore: block %d points at itself, continuing at %d", current, seq)
				current = seq
				continue
			}
			break
		}
		if visited[next] {
			logging.Debug("msgstore: chain from %d loops back to block %d", start, next)
			break
		}
		current = next
	}

	text := strings.Join(parts, "")
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	return Chain{Text: text, Blocks: blocks}
}

// probeSequential decides whether the block after a self-referencing block
// is its real continuation: it must be in range, unclaimed, carry more than
// ten characters of trimmed text and not look like a message start.
func (s *Store) probeSequential(current int, claims *ClaimSet) (int, bool) {
	seq := current + 1
	if claims.Claimed(seq) {
		return 0, false
	}
	payload, ok := s.Payload(seq)
	if !ok {
		return 0, false
	}
	decoded := DecodePacked(payload, false)
	if IsMessageStart(decoded) || len(strings.TrimSpace(decoded)) <= minProbeChars {
		return 0, false
	}
	return seq, true
}
