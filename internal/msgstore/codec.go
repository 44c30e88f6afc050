package msgstore

import "strings"

// DecodePacked expands GBBS 7-bit packed text. Every 7 input bytes yield 8
// characters: the low 7 bits of each byte, followed by a character built
// from the 7 high bits (byte k supplies bit k). A trailing partial group is
// dropped. With stopAtNull set, decoding ends at the first NUL character.
// Carriage returns become newlines.
func DecodePacked(p []byte, stopAtNull bool) string {
	out := make([]byte, 0, len(p)/PackedGroup*DecodedGroup)
decode:
	for i := 0; i+PackedGroup <= len(p); i += PackedGroup {
		var group [DecodedGroup]byte
		var high byte
		for k, b := range p[i : i+PackedGroup] {
			group[k] = b & 0x7f
			high |= (b >> 7) << k
		}
		group[PackedGroup] = high
		for _, c := range group {
			if stopAtNull && c == 0 {
				break decode
			}
			out = append(out, c)
		}
	}
	return presentation(out)
}

// presentation renders decoded bytes as text. Bytes outside 7-bit ASCII
// become U+FFFD and CR becomes LF.
func presentation(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == '\r':
			sb.WriteByte('\n')
		case c > 0x7f:
			sb.WriteRune('�')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// EncodePacked is the inverse of DecodePacked for 7-bit input. Each group
// of 8 characters is packed into 7 bytes; a short final group is padded
// with NULs. Characters above 0x7f have their high bit dropped.
func EncodePacked(text []byte) []byte {
	out := make([]byte, 0, (len(text)+DecodedGroup-1)/DecodedGroup*PackedGroup)
	for i := 0; i < len(text); i += DecodedGroup {
		var group [DecodedGroup]byte
		copy(group[:], text[i:])
		high := group[PackedGroup] & 0x7f
		for k := 0; k < PackedGroup; k++ {
			out = append(out, group[k]&0x7f|((high>>k)&1)<<7)
		}
	}
	return out
}
