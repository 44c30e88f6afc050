package msgstore

// Scan recovers every message in s, choosing bulletin or mail semantics
// from the store's format byte. names is only consulted for mail stores
// and may be nil.
func Scan(s *Store, names UserLookup, opts Options) *Result {
	if s.Format() == FormatEmail {
		return ScanEmail(s, names, opts)
	}
	return ScanBulletin(s, opts)
}

// BlockBreakdown summarises how a bulletin scan used the data area.
type BlockBreakdown struct {
	ActiveHeaders  int
	ActiveChain    int
	DeletedHeaders int
	DeletedChain   int
	Orphaned       int
	Unused         int
	Total          int
}

// Breakdown counts blocks by role for the analysis report. Active blocks
// come from the independent chain walk, not from the claim set.
func (r *Result) Breakdown() BlockBreakdown {
	roles := r.BlockRoles()
	var b BlockBreakdown
	b.Total = r.TotalBlocks
	for n := 1; n <= r.TotalBlocks; n++ {
		switch roles[n] {
		case RoleActiveHeader:
			b.ActiveHeaders++
		case RoleActiveChain:
			b.ActiveChain++
		case RoleDeletedHeader:
			b.DeletedHeaders++
		case RoleDeletedChain:
			b.DeletedChain++
		case RoleOrphaned:
			b.Orphaned++
		default:
			b.Unused++
		}
	}
	return b
}

// BlockRole is a block's part in the recovered messages, as shown on the
// analysis block map.
type BlockRole byte

const (
	RoleUnused        BlockRole = ' '
	RoleActiveHeader  BlockRole = 'H'
	RoleActiveChain   BlockRole = 'C'
	RoleDeletedHeader BlockRole = 'D'
	RoleDeletedChain  BlockRole = 'd'
	RoleOrphaned      BlockRole = 'o'
)

// BlockRoles returns the role of each block, indexed by block number.
// Earlier roles take precedence: an active header is never reported as a
// chain block even if another chain also runs through it.
func (r *Result) BlockRoles() []BlockRole {
	roles := make([]BlockRole, r.TotalBlocks+1)
	for i := range roles {
		roles[i] = RoleUnused
	}
	set := func(n int, role BlockRole) {
		if n >= 1 && n <= r.TotalBlocks && roles[n] == RoleUnused {
			roles[n] = role
		}
	}
	for _, rec := range r.Active {
		set(rec.Block, RoleActiveHeader)
	}
	for _, n := range r.ActiveBlocks {
		set(n, RoleActiveChain)
	}
	for _, rec := range r.Deleted {
		set(rec.Block, RoleDeletedHeader)
	}
	for _, n := range r.DeletedBlocks {
		set(n, RoleDeletedChain)
	}
	for _, rec := range r.Orphaned {
		set(rec.Block, RoleOrphaned)
	}
	return roles
}
