package msgstore

import "github.com/stlalpha/gbbsrecover/internal/logging"

// ScanBulletin recovers the messages of a bulletin board store in three
// phases that share one claim set:
//
//  1. Active: every directory slot's chain, in slot order.
//  2. Deleted: unclaimed blocks, in block order, whose text starts with a
//     message header.
//  3. Orphaned: whatever unclaimed, non-empty blocks remain.
//
// Each phase sees every claim of the phases and slots before it, so a
// block shared by two chains goes to the higher priority message.
func ScanBulletin(s *Store, opts Options) *Result {
	res := &Result{
		Format:      FormatBulletin,
		Header:      s.Header,
		FileSize:    s.Size(),
		TotalBlocks: s.TotalBlocks,
		Claims:      NewClaimSet(s.TotalBlocks),
	}

	res.Active = scanActive(s, res.Claims, opts)
	res.Deleted, res.DeletedBlocks = scanDeleted(s, res.Claims, opts)
	res.Orphaned = scanOrphaned(s, res.Claims)
	res.ActiveBlocks = activeBlocks(s, res.Active)

	logging.Debug("msgstore: bulletin scan: %d active, %d deleted, %d orphaned over %d blocks",
		len(res.Active), len(res.Deleted), len(res.Orphaned), s.TotalBlocks)
	return res
}

func scanActive(s *Store, claims *ClaimSet, opts Options) []Record {
	var recs []Record
	for slot := 0; slot < s.Header.MaxDirectoryEntries; slot++ {
		block, ok := s.DirectoryEntry(slot)
		if !ok {
			break
		}
		if block == 0 {
			continue
		}
		if block > s.TotalBlocks {
			logging.Debug("msgstore: directory slot %d points past data area (block %d)", slot, block)
			continue
		}
		chain := s.Follow(block, claims)
		claims.Claim(chain.Blocks, Active)
		recs = append(recs, Record{
			Class:  Active,
			Block:  block,
			Slot:   slot,
			Text:   chain.Text,
			Date:   opts.date(chain.Text),
			Blocks: chain.Blocks,
		})
	}
	return recs
}

func scanDeleted(s *Store, claims *ClaimSet, opts Options) ([]Record, []int) {
	var recs []Record
	touched := make(map[int]bool)
	for _, block := range claims.Unclaimed() {
		if claims.Claimed(block) || !s.dense(block) {
			continue
		}
		payload, _ := s.Payload(block)
		if !IsMessageStart(DecodePacked(payload, true)) {
			continue
		}
		chain := s.Follow(block, claims)
		claims.Claim(chain.Blocks, Deleted)
		for _, n := range chain.Blocks {
			touched[n] = true
		}
		recs = append(recs, Record{
			Class:  Deleted,
			Block:  block,
			Slot:   -1,
			Text:   chain.Text,
			Date:   opts.date(chain.Text),
			Blocks: chain.Blocks,
		})
	}
	sortByDate(recs)
	return recs, sortedKeys(touched)
}

// scanOrphaned captures leftover fragments. They carry no header, so no
// date is extracted.
func scanOrphaned(s *Store, claims *ClaimSet) []Record {
	var recs []Record
	for _, block := range claims.Unclaimed() {
		if claims.Claimed(block) || !s.dense(block) {
			continue
		}
		chain := s.Follow(block, claims)
		claims.Claim(chain.Blocks, Orphaned)
		recs = append(recs, Record{
			Class:  Orphaned,
			Block:  block,
			Slot:   -1,
			Text:   chain.Text,
			Blocks: chain.Blocks,
		})
	}
	return recs
}

// activeBlocks walks every active chain again by raw next pointers,
// ignoring claims, to report the full footprint of the live messages.
func activeBlocks(s *Store, active []Record) []int {
	touched := make(map[int]bool)
	for _, rec := range active {
		touched[rec.Block] = true
		visited := map[int]bool{rec.Block: true}
		next, ok := s.Next(rec.Block)
		for ok && next != 0 && !visited[next] {
			if next <= s.TotalBlocks {
				touched[next] = true
			}
			visited[next] = true
			next, ok = s.Next(next)
		}
	}
	return sortedKeys(touched)
}
