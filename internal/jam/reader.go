package jam

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// ReadAll loads every message of the base at basePath, deleted ones
// included, in message number order.
func ReadAll(basePath string) (*FixedHeaderInfo, []*Message, error) {
	jhr, err := os.ReadFile(basePath + ".jhr")
	if err != nil {
		return nil, nil, fmt.Errorf("jam: failed to read .jhr: %w", err)
	}
	jdt, err := os.ReadFile(basePath + ".jdt")
	if err != nil {
		return nil, nil, fmt.Errorf("jam: failed to read .jdt: %w", err)
	}
	jdx, err := os.ReadFile(basePath + ".jdx")
	if err != nil {
		return nil, nil, fmt.Errorf("jam: failed to read .jdx: %w", err)
	}

	if len(jhr) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: .jhr shorter than fixed header", ErrCorrupt)
	}
	fh := &FixedHeaderInfo{}
	if err := binary.Read(bytes.NewReader(jhr[:HeaderSize]), binary.LittleEndian, fh); err != nil {
		return nil, nil, fmt.Errorf("jam: failed to read fixed header: %w", err)
	}
	if string(fh.Signature[:]) != Signature {
		return nil, nil, ErrInvalidSignature
	}

	decoder := charmap.CodePage437.NewDecoder()
	var msgs []*Message
	for i := 0; i+IndexRecordSize <= len(jdx); i += IndexRecordSize {
		var idx IndexRecord
		binary.Read(bytes.NewReader(jdx[i:i+IndexRecordSize]), binary.LittleEndian, &idx)

		msg, err := readMessage(jhr, jdt, idx.HdrOffset)
		if err != nil {
			return nil, nil, fmt.Errorf("jam: message %d: %w", i/IndexRecordSize+1, err)
		}
		text, err := decoder.String(msg.Text)
		if err != nil {
			return nil, nil, fmt.Errorf("jam: message %d: failed to decode text: %w", i/IndexRecordSize+1, err)
		}
		msg.Text = strings.ReplaceAll(text, "\r", "\n")
		msg.Number = i/IndexRecordSize + 1
		msgs = append(msgs, msg)
	}
	return fh, msgs, nil
}

func readMessage(jhr, jdt []byte, offset uint32) (*Message, error) {
	if int(offset)+MsgHeaderSize > len(jhr) {
		return nil, fmt.Errorf("%w: header offset %d past end of .jhr", ErrCorrupt, offset)
	}
	r := bytes.NewReader(jhr[offset:])
	var hdr MessageHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if string(hdr.Signature[:]) != Signature {
		return nil, ErrInvalidSignature
	}

	msg := &Message{Attribute: hdr.Attribute}
	if hdr.DateWritten != 0 {
		msg.DateTime = time.Unix(int64(hdr.DateWritten), 0)
	}

	for read := uint32(0); read < hdr.SubfieldLen; {
		var sf Subfield
		binary.Read(r, binary.LittleEndian, &sf.LoID)
		binary.Read(r, binary.LittleEndian, &sf.HiID)
		if err := binary.Read(r, binary.LittleEndian, &sf.DatLen); err != nil {
			return nil, fmt.Errorf("%w: truncated subfield", ErrCorrupt)
		}
		if int(sf.DatLen) > r.Len() {
			return nil, fmt.Errorf("%w: subfield length %d", ErrCorrupt, sf.DatLen)
		}
		sf.Buffer = make([]byte, sf.DatLen)
		r.Read(sf.Buffer)
		read += SubfieldHdrSize + sf.DatLen

		val := string(sf.Buffer)
		switch sf.LoID {
		case SfldSenderName:
			msg.From = val
		case SfldReceiverName:
			msg.To = val
		case SfldSubject:
			msg.Subject = val
		case SfldMsgID:
			msg.MsgID = val
		case SfldPID:
			msg.PID = val
		case SfldFTSKludge:
			msg.Kludges = append(msg.Kludges, val)
		}
	}

	end := uint64(hdr.Offset) + uint64(hdr.TxtLen)
	if end > uint64(len(jdt)) {
		return nil, fmt.Errorf("%w: text runs past end of .jdt", ErrCorrupt)
	}
	msg.Text = string(jdt[hdr.Offset:end])
	return msg, nil
}
