package export

import (
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/google/uuid"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

// mailDomain is the fake domain used for synthesized addresses and
// Message-IDs; recovered messages have no real one.
const mailDomain = "gbbs.invalid"

// WriteMbox writes the selected records to w as an mbox mailbox, one
// message per record, and returns the number written. Header fields come
// from the record's envelope lines where it has them.
func WriteMbox(w io.Writer, res *msgstore.Result, sel Selection) (int, error) {
	mw := mbox.NewWriter(w)
	count := 0
	for _, it := range plan(res, sel) {
		env := envelopeFor(it.rec, it.mail)
		date := it.rec.Date
		if date.IsZero() {
			// The separator line needs some time; keep it stable per record.
			date = time.Unix(0, 0).UTC()
		}
		msg, err := mw.CreateMessage(address(env.From), date)
		if err != nil {
			return count, fmt.Errorf("export: failed to start mbox message: %w", err)
		}
		if err := writeMboxMessage(msg, it, env); err != nil {
			return count, fmt.Errorf("export: failed to write mbox message: %w", err)
		}
		count++
	}
	if err := mw.Close(); err != nil {
		return count, fmt.Errorf("export: failed to finish mbox: %w", err)
	}
	return count, nil
}

func writeMboxMessage(w io.Writer, it item, env envelope) error {
	rec := it.rec
	var b strings.Builder
	header := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	header("From", (&mail.Address{Name: env.From, Address: address(env.From)}).String())
	header("To", (&mail.Address{Name: env.To, Address: address(env.To)}).String())
	header("Subject", mime.QEncoding.Encode("utf-8", env.Subject))
	if rec.HasDate() {
		header("Date", rec.Date.Format(time.RFC1123Z))
	}
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), mailDomain))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	header("X-GBBS-Class", rec.Class.String())
	header("X-GBBS-Block", fmt.Sprint(rec.Block))
	if it.mail {
		header("X-GBBS-User", fmt.Sprint(rec.UserID))
	}
	b.WriteString("\n")
	b.WriteString(it.body)
	if !strings.HasSuffix(it.body, "\n") {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// envelope is the addressing used when a record becomes a mail or JAM
// message.
type envelope struct {
	From    string
	To      string
	Subject string
}

// envelopeFor takes sender, recipient and subject from the record's
// header lines. Mail records are addressed to their mailbox owner, and
// anything the text doesn't say gets a placeholder.
func envelopeFor(rec msgstore.Record, fromMailbox bool) envelope {
	var e envelope
	if env, ok := msgstore.ParseEnvelope(rec.Text); ok {
		e = envelope{From: env.From, To: env.To, Subject: env.Subject}
	}
	if fromMailbox && rec.UserName != "" {
		e.To = rec.UserName
	} else if fromMailbox && e.To == "" {
		e.To = fmt.Sprintf("User ID %d", rec.UserID)
	}
	if e.From == "" {
		e.From = "Unknown"
	}
	if e.To == "" {
		e.To = "All"
	}
	if e.Subject == "" {
		e.Subject = fmt.Sprintf("Recovered %s block %d", rec.Class, rec.Block)
	}
	return e
}

// address turns a BBS handle into a local address at mailDomain.
func address(name string) string {
	local := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		case r == ' ', r == '.', r == '_', r == '-':
			return '.'
		}
		return -1
	}, name)
	local = strings.Trim(local, ".")
	if local == "" {
		local = "unknown"
	}
	return local + "@" + mailDomain
}
