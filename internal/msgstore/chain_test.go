package msgstore

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func decoded(text string) string {
	return strings.ReplaceAll(text, "\r", "\n")
}

func TestFollowSimpleChain(t *testing.T) {
	first := fullBlock(header("Hello", "1,ALICE", "2,BOB", "01/02/20 03:04:05 PM"))
	s := newTestStore(1, 1, 2).
		setText(1, first, 2).
		setText(2, "the end\x00", 0).
		load(t)

	c := s.Follow(1, NewClaimSet(s.TotalBlocks))
	if want := decoded(first) + "the end"; c.Text != want {
		t.Errorf("Text = %q, want %q", c.Text, want)
	}
	if !reflect.DeepEqual(c.Blocks, []int{1, 2}) {
		t.Errorf("Blocks = %v, want [1 2]", c.Blocks)
	}
}

func TestFollowTerminatesOnCycles(t *testing.T) {
	for n := 1; n <= 12; n++ {
		ts := newTestStore(1, 1, n)
		for i := 1; i <= n; i++ {
			next := i%n + 1 // last block points back to the first
			ts.setText(i, fullBlock(fmt.Sprintf("block %d", i)), next)
		}
		s := ts.load(t)
		c := s.Follow(1, nil)
		if len(c.Blocks) != n {
			t.Errorf("ring of %d: consumed %d blocks (%v)", n, len(c.Blocks), c.Blocks)
		}
		seen := make(map[int]bool)
		for _, b := range c.Blocks {
			if seen[b] {
				t.Errorf("ring of %d: block %d visited twice", n, b)
			}
			seen[b] = true
		}
	}
}

func TestFollowCycleIntoMiddle(t *testing.T) {
	s := newTestStore(1, 1, 4).
		setText(1, fullBlock("one"), 2).
		setText(2, fullBlock("two"), 3).
		setText(3, fullBlock("three"), 4).
		setText(4, fullBlock("four"), 2).
		load(t)
	c := s.Follow(1, nil)
	if !reflect.DeepEqual(c.Blocks, []int{1, 2, 3, 4}) {
		t.Errorf("Blocks = %v, want [1 2 3 4]", c.Blocks)
	}
	if !strings.HasSuffix(c.Text, decoded(fullBlock("four"))) {
		t.Errorf("Text should end with block 4, got %q", c.Text)
	}
}

func TestFollowSelfReferenceContinues(t *testing.T) {
	first := fullBlock(header("Hello", "1,ALICE", "2,BOB", "01/02/20 03:04:05 PM"))
	s := newTestStore(1, 1, 2).
		setText(1, first, 1).
		setText(2, "continuation of the message\x00", 0).
		load(t)

	c := s.Follow(1, NewClaimSet(s.TotalBlocks))
	if want := decoded(first) + "continuation of the message"; c.Text != want {
		t.Errorf("Text = %q, want %q", c.Text, want)
	}
	if !reflect.DeepEqual(c.Blocks, []int{1, 2}) {
		t.Errorf("Blocks = %v, want [1 2]", c.Blocks)
	}
}

func TestFollowSelfReferenceStops(t *testing.T) {
	first := fullBlock("first block of text")
	tests := []struct {
		name   string
		second string
		claim  bool
		blocks int
	}{
		{"next is message start", header("Other", "3,CAROL", "4,DAVE", "01/03/20 01:00:00 AM"), false, 2},
		{"next is blank", "   tiny" + strings.Repeat(" ", 137), false, 2},
		{"next is claimed", "plenty of continuation text\x00", true, 2},
		{"no next block", "", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestStore(1, 1, tt.blocks).setText(1, first, 1)
			if tt.blocks > 1 {
				ts.setText(2, tt.second, 0)
			}
			s := ts.load(t)
			claims := NewClaimSet(s.TotalBlocks)
			if tt.claim {
				claims.Claim([]int{2}, Active)
			}
			c := s.Follow(1, claims)
			if !reflect.DeepEqual(c.Blocks, []int{1}) {
				t.Errorf("Blocks = %v, want [1]", c.Blocks)
			}
			if c.Text != decoded(first) {
				t.Errorf("Text = %q", c.Text)
			}
		})
	}
}

func TestFollowStopsAtClaimedBlock(t *testing.T) {
	s := newTestStore(1, 1, 3).
		setText(1, fullBlock("one"), 2).
		setText(2, fullBlock("two"), 3).
		setText(3, "three\x00", 0).
		load(t)
	claims := NewClaimSet(s.TotalBlocks)
	claims.Claim([]int{2}, Active)

	c := s.Follow(1, claims)
	if !reflect.DeepEqual(c.Blocks, []int{1}) {
		t.Errorf("Blocks = %v, want [1]", c.Blocks)
	}
	if c.Text != fullBlock("one") {
		t.Errorf("Text = %q", c.Text)
	}

	if c := s.Follow(2, claims); c.Text != "" || len(c.Blocks) != 0 {
		t.Errorf("claimed start: got %q %v, want empty chain", c.Text, c.Blocks)
	}
}

func TestFollowStopsOutsideDataArea(t *testing.T) {
	s := newTestStore(1, 1, 1).setText(1, fullBlock("only"), 99).load(t)
	c := s.Follow(1, nil)
	if !reflect.DeepEqual(c.Blocks, []int{1}) {
		t.Errorf("Blocks = %v, want [1]", c.Blocks)
	}
	if c := s.Follow(99, nil); len(c.Blocks) != 0 || c.Text != "" {
		t.Errorf("out of range start: got %q %v", c.Text, c.Blocks)
	}
}

func TestFollowStopsAtFalseContinuation(t *testing.T) {
	first := fullBlock(header("Hello", "1,ALICE", "2,BOB", "01/02/20 03:04:05 PM"))
	other := header("Other", "3,CAROL", "4,DAVE", "01/03/20 01:00:00 AM") + "other body\x00"
	s := newTestStore(1, 1, 2).setText(1, first, 2).setText(2, other, 0).load(t)

	c := s.Follow(1, nil)
	if c.Text != decoded(first) {
		t.Errorf("Text = %q, want only the first block", c.Text)
	}
	// The rejected block was still visited and counts as consumed.
	if !reflect.DeepEqual(c.Blocks, []int{1, 2}) {
		t.Errorf("Blocks = %v, want [1 2]", c.Blocks)
	}
}

func TestFollowStripsLeadingPadding(t *testing.T) {
	s := newTestStore(1, 1, 2).
		setText(1, fullBlock("one"), 2).
		setText(2, "\x00\x00\x00\x00\x00\x00\x00\x00more text\x00", 0).
		load(t)
	c := s.Follow(1, nil)
	if want := fullBlock("one") + "more text"; c.Text != want {
		t.Errorf("Text = %q, want %q", c.Text, want)
	}
}

func TestFollowTruncatesAtFirstNull(t *testing.T) {
	s := newTestStore(1, 1, 1).setText(1, "short\x00hidden text", 0).load(t)
	if c := s.Follow(1, nil); c.Text != "short" {
		t.Errorf("Text = %q, want %q", c.Text, "short")
	}
}
