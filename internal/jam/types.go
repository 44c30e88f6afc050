package jam

import (
	"hash/crc32"
	"strings"
	"time"
)

// FixedHeaderInfo is the JAM base header (1024 bytes on disk).
type FixedHeaderInfo struct {
	Signature   [4]byte
	DateCreated uint32
	ModCounter  uint32
	ActiveMsgs  uint32
	PasswordCRC uint32
	BaseMsgNum  uint32
	Reserved    [1000]byte
}

// MessageHeader is the fixed 76-byte part of a .jhr message header. The
// subfields follow it on disk.
type MessageHeader struct {
	Signature     [4]byte
	Revision      uint16
	ReservedWord  uint16
	SubfieldLen   uint32
	TimesRead     uint32
	MSGIDcrc      uint32
	REPLYcrc      uint32
	ReplyTo       uint32
	Reply1st      uint32
	ReplyNext     uint32
	DateWritten   uint32
	DateReceived  uint32
	DateProcessed uint32
	MessageNumber uint32
	Attribute     uint32
	Attribute2    uint32
	Offset        uint32 // Offset into .jdt file
	TxtLen        uint32 // Length of text in .jdt
	PasswordCRC   uint32
	Cost          uint32
}

// Subfield is a variable-length field attached to a message header.
type Subfield struct {
	LoID   uint16
	HiID   uint16
	DatLen uint32
	Buffer []byte
}

// IndexRecord is an entry in the .jdx index file.
type IndexRecord struct {
	ToCRC     uint32 // CRC32 of lowercase recipient name
	HdrOffset uint32 // Byte offset of header in .jhr
}

// Message is a message as written to or read from a base. Text is UTF-8
// with LF line endings; it is stored as CP437 with CR line endings.
type Message struct {
	Number    int // 1-based; set when written or read
	From      string
	To        string
	Subject   string
	DateTime  time.Time // Zero is stored as 0
	Text      string
	Attribute uint32
	MsgID     string
	PID       string
	Kludges   []string
}

// IsDeleted reports whether the message carries the deleted attribute.
func (m *Message) IsDeleted() bool {
	return m.Attribute&MsgDeleted != 0
}

func (m *Message) subfields() []Subfield {
	var sfs []Subfield
	add := func(id uint16, val string) {
		if val != "" {
			sfs = append(sfs, Subfield{LoID: id, DatLen: uint32(len(val)), Buffer: []byte(val)})
		}
	}
	add(SfldSenderName, m.From)
	add(SfldReceiverName, m.To)
	add(SfldSubject, m.Subject)
	add(SfldMsgID, m.MsgID)
	add(SfldPID, m.PID)
	for _, k := range m.Kludges {
		add(SfldFTSKludge, k)
	}
	return sfs
}

var crcTable = crc32.MakeTable(crc32.IEEE)

// CRC32String is the JAM name CRC: ASCII-lowercase the string, take the
// IEEE CRC32 and invert it.
func CRC32String(s string) uint32 {
	lower := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + 32
		}
		return r
	}, s)
	return ^crc32.Checksum([]byte(lower), crcTable)
}
