package msgstore

import (
	"strings"

	"github.com/stlalpha/gbbsrecover/internal/logging"
)

// ScanEmail recovers a mail store. Each directory slot is a user ID whose
// chain holds that user's mail, one message per EOT-separated segment.
// Mail has no deleted or orphaned recovery; all records are Active and
// come back sorted by header date.
func ScanEmail(s *Store, names UserLookup, opts Options) *Result {
	res := &Result{
		Format:      FormatEmail,
		Header:      s.Header,
		FileSize:    s.Size(),
		TotalBlocks: s.TotalBlocks,
		Claims:      NewClaimSet(s.TotalBlocks),
	}
	allocated := make(map[int]bool)

	for uid := 0; uid < s.Header.MaxDirectoryEntries; uid++ {
		block, ok := s.DirectoryEntry(uid)
		if !ok {
			break
		}
		if block == 0 {
			continue
		}
		var name string
		if names != nil {
			name, _ = names.DisplayName(uid)
		}

		// Users don't share blocks, so every mailbox starts from a clean
		// claim set.
		chain := s.Follow(block, nil)
		res.Claims.Claim(chain.Blocks, Active)
		for _, n := range chain.Blocks {
			allocated[n] = true
		}

		for _, msg := range SplitMail(chain.Text) {
			res.Active = append(res.Active, Record{
				Class:    Active,
				Block:    block,
				Slot:     uid,
				UserID:   uid,
				UserName: name,
				Text:     msg,
				Date:     opts.date(msg),
				Blocks:   chain.Blocks,
			})
		}
	}

	sortByDate(res.Active)
	res.AllocatedBlocks = sortedKeys(allocated)
	logging.Debug("msgstore: mail scan: %d messages over %d blocks", len(res.Active), len(res.AllocatedBlocks))
	return res
}

// SplitMail splits a mailbox chain on EOT. Segments are stripped of NULs
// and surrounding whitespace; anything shorter than 20 characters is
// padding and dropped.
func SplitMail(text string) []string {
	var msgs []string
	for _, seg := range strings.Split(text, eot) {
		seg = strings.TrimSpace(strings.ReplaceAll(seg, "\x00", ""))
		if len(seg) < minEmailMsgLength {
			continue
		}
		msgs = append(msgs, seg)
	}
	return msgs
}
