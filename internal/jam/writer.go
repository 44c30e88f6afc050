package jam

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Writer appends messages to a newly created JAM base. The fixed header is
// written on Close, so a base is only complete once Close returns nil.
type Writer struct {
	BasePath string

	fixedHeader FixedHeaderInfo
	jhr, jdt    *os.File
	jdx, jlr    *os.File
	jhrPos      uint32
	jdtPos      uint32
	count       int
	encoder     *encoding.Encoder
	closed      bool
}

// Create makes a new, empty JAM base at basePath (the path without
// extension, e.g. "data/msgbases/gbbs"). It refuses to touch an existing
// base.
func Create(basePath string) (*Writer, error) {
	if _, err := os.Stat(basePath + ".jhr"); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBaseExists, basePath)
	}
	if err := os.MkdirAll(filepath.Dir(basePath), 0755); err != nil {
		return nil, fmt.Errorf("jam: failed to create directory: %w", err)
	}

	w := &Writer{
		BasePath: basePath,
		encoder:  encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder()),
	}
	files := []**os.File{&w.jhr, &w.jdt, &w.jdx, &w.jlr}
	for i, ext := range []string{".jhr", ".jdt", ".jdx", ".jlr"} {
		f, err := os.OpenFile(basePath+ext, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			w.closeFiles()
			return nil, fmt.Errorf("jam: failed to create %s: %w", ext, err)
		}
		*files[i] = f
	}

	copy(w.fixedHeader.Signature[:], Signature)
	w.fixedHeader.DateCreated = uint32(time.Now().Unix())
	w.fixedHeader.BaseMsgNum = 1
	if err := w.writeFixedHeader(); err != nil {
		w.closeFiles()
		return nil, err
	}
	w.jhrPos = HeaderSize
	return w, nil
}

// Append writes msg as the next message in the base and returns its
// 1-based message number.
func (w *Writer) Append(msg *Message) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	text, err := w.encoder.String(strings.ReplaceAll(msg.Text, "\n", "\r"))
	if err != nil {
		return 0, fmt.Errorf("jam: failed to encode text: %w", err)
	}
	if _, err := w.jdt.WriteAt([]byte(text), int64(w.jdtPos)); err != nil {
		return 0, fmt.Errorf("jam: failed to write text: %w", err)
	}

	num := w.count + 1
	hdr := MessageHeader{
		Revision:      1,
		MessageNumber: uint32(num) + w.fixedHeader.BaseMsgNum - 1,
		Attribute:     msg.Attribute,
		Offset:        w.jdtPos,
		TxtLen:        uint32(len(text)),
		DateProcessed: uint32(time.Now().Unix()),
	}
	copy(hdr.Signature[:], Signature)
	if !msg.DateTime.IsZero() {
		hdr.DateWritten = uint32(msg.DateTime.Unix())
	}
	if msg.MsgID != "" {
		hdr.MSGIDcrc = CRC32String(msg.MsgID)
	}
	sfs := msg.subfields()
	for _, sf := range sfs {
		hdr.SubfieldLen += SubfieldHdrSize + sf.DatLen
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &hdr)
	for _, sf := range sfs {
		binary.Write(&buf, binary.LittleEndian, sf.LoID)
		binary.Write(&buf, binary.LittleEndian, sf.HiID)
		binary.Write(&buf, binary.LittleEndian, sf.DatLen)
		buf.Write(sf.Buffer)
	}
	hdrOffset := w.jhrPos
	if _, err := w.jhr.WriteAt(buf.Bytes(), int64(hdrOffset)); err != nil {
		return 0, fmt.Errorf("jam: failed to write header: %w", err)
	}

	var idx bytes.Buffer
	binary.Write(&idx, binary.LittleEndian, IndexRecord{
		ToCRC:     CRC32String(msg.To),
		HdrOffset: hdrOffset,
	})
	if _, err := w.jdx.WriteAt(idx.Bytes(), int64(w.count*IndexRecordSize)); err != nil {
		return 0, fmt.Errorf("jam: failed to write index: %w", err)
	}

	w.jhrPos += uint32(buf.Len())
	w.jdtPos += uint32(len(text))
	w.count++
	if !msg.IsDeleted() {
		w.fixedHeader.ActiveMsgs++
	}
	w.fixedHeader.ModCounter++
	msg.Number = num
	return num, nil
}

// Count returns the number of messages appended so far.
func (w *Writer) Count() int { return w.count }

// Close writes the fixed header and closes the base files.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.writeFixedHeader()
	return errors.Join(err, w.closeFiles())
}

func (w *Writer) writeFixedHeader() error {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &w.fixedHeader)
	if _, err := w.jhr.WriteAt(buf.Bytes(), 0); err != nil {
		return fmt.Errorf("jam: failed to write fixed header: %w", err)
	}
	return nil
}

func (w *Writer) closeFiles() error {
	var errs []error
	for _, f := range []*os.File{w.jhr, w.jdt, w.jdx, w.jlr} {
		if f != nil {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	w.jhr, w.jdt, w.jdx, w.jlr = nil, nil, nil, nil
	if len(errs) > 0 {
		return fmt.Errorf("jam: errors closing base: %v", errs)
	}
	return nil
}
