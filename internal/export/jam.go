package export

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/stlalpha/gbbsrecover/internal/jam"
	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

// JAMOptions describe the base an import creates.
type JAMOptions struct {
	AreaName string // Recorded in each message's kludges when set
	PID      string // Program ID subfield
}

// WriteJAM creates a new JAM base at basePath and imports the selected
// records into it, returning the number of messages written. An existing
// base is never touched. Deleted records keep the deleted attribute so
// they stay hidden until a sysop undeletes them.
func WriteJAM(basePath string, res *msgstore.Result, sel Selection, opts JAMOptions) (int, error) {
	items := plan(res, sel)
	if len(items) == 0 {
		return 0, ErrNothingToWrite
	}

	w, err := jam.Create(basePath)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if _, err := w.Append(jamMessage(it, opts)); err != nil {
			w.Close()
			return w.Count(), fmt.Errorf("export: failed to import block %d: %w", it.rec.Block, err)
		}
	}
	if err := w.Close(); err != nil {
		return w.Count(), err
	}
	log.Printf("INFO: Imported %d messages into JAM base %s", w.Count(), basePath)
	return w.Count(), nil
}

func jamMessage(it item, opts JAMOptions) *jam.Message {
	rec := it.rec
	env := envelopeFor(rec, it.mail)

	attr := uint32(jam.MsgLocal | jam.MsgTypeLocal)
	switch rec.Class {
	case msgstore.Deleted:
		attr |= jam.MsgDeleted
	case msgstore.Orphaned:
		attr |= jam.MsgOrphan
	}
	if it.mail {
		attr |= jam.MsgPrivate
	}

	kludges := []string{fmt.Sprintf("GBBS: %s block %d", rec.Class, rec.Block)}
	if opts.AreaName != "" {
		kludges = append(kludges, "GBBS-AREA: "+opts.AreaName)
	}

	return &jam.Message{
		From:      env.From,
		To:        env.To,
		Subject:   env.Subject,
		DateTime:  rec.Date,
		Text:      it.body,
		Attribute: attr,
		MsgID:     fmt.Sprintf("%s@%s", uuid.NewString(), mailDomain),
		PID:       opts.PID,
		Kludges:   kludges,
	}
}
