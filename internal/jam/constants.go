// Package jam writes JAM message bases (JAM-001) that ViSiON/3 and other
// JAM-aware BBS software can open. Recovered GBBS messages are imported
// into a fresh base; existing bases are never modified.
package jam

import "errors"

// JAM file format constants
const (
	Signature       = "JAM\x00"
	HeaderSize      = 1024 // Fixed header occupies first 1024 bytes of .jhr
	MsgHeaderSize   = 76   // Fixed portion of each message header
	SubfieldHdrSize = 8    // LoID(2) + HiID(2) + DatLen(4)
	IndexRecordSize = 8    // ToCRC(4) + HdrOffset(4)
)

// Message attribute flags used by imported messages
const (
	MsgLocal     = 0x00000001 // Created locally
	MsgPrivate   = 0x00000004 // Private message
	MsgRead      = 0x00000008 // Read by addressee
	MsgOrphan    = 0x00040000 // Unknown destination
	MsgTypeLocal = 0x00800000 // Local use only
	MsgDeleted   = 0x80000000 // Deleted
)

// Subfield type identifiers
const (
	SfldSenderName   = 2    // Sender name
	SfldReceiverName = 3    // Receiver name
	SfldMsgID        = 4    // Message ID
	SfldSubject      = 6    // Subject
	SfldPID          = 7    // Program ID
	SfldFTSKludge    = 2000 // Kludge line
)

// Sentinel errors
var (
	ErrInvalidSignature = errors.New("jam: invalid JAM signature")
	ErrBaseExists       = errors.New("jam: message base already exists")
	ErrClosed           = errors.New("jam: writer is closed")
	ErrCorrupt          = errors.New("jam: corrupt message base")
)
