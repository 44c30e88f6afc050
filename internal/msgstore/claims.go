package msgstore

// ClaimSet records which message class owns each data block. Blocks are
// claimed in phase order (active, deleted, orphaned) and the first owner
// wins, so every block belongs to at most one message.
type ClaimSet struct {
	owner []Class // indexed by block number; 0 is unused
}

// NewClaimSet returns an empty claim set for a store of total blocks.
func NewClaimSet(total int) *ClaimSet {
	if total < 0 {
		total = 0
	}
	return &ClaimSet{owner: make([]Class, total+1)}
}

// Claimed reports whether block n already belongs to a message.
func (c *ClaimSet) Claimed(n int) bool {
	return c.Owner(n) != Unclaimed
}

// Owner returns the class that claimed block n.
func (c *ClaimSet) Owner(n int) Class {
	if c == nil || n < 1 || n >= len(c.owner) {
		return Unclaimed
	}
	return c.owner[n]
}

// Claim assigns every unowned block in blocks to class.
func (c *ClaimSet) Claim(blocks []int, class Class) {
	for _, n := range blocks {
		if n >= 1 && n < len(c.owner) && c.owner[n] == Unclaimed {
			c.owner[n] = class
		}
	}
}

// Unclaimed returns the unowned block numbers in ascending order.
func (c *ClaimSet) Unclaimed() []int {
	var free []int
	for n := 1; n < len(c.owner); n++ {
		if c.owner[n] == Unclaimed {
			free = append(free, n)
		}
	}
	return free
}

// Count returns how many blocks class owns.
func (c *ClaimSet) Count(class Class) int {
	count := 0
	for n := 1; n < len(c.owner); n++ {
		if c.owner[n] == class {
			count++
		}
	}
	return count
}
