package bytecode

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrMalformedString is returned when modified UTF-8 text cannot be
// decoded.
var ErrMalformedString = errors.New("malformed modified UTF-8 string")

// appendModifiedUTF8 appends s in modified UTF-8: NUL is written as two
// bytes and characters outside the Basic Multilingual Plane are written as
// a surrogate pair of three-byte sequences.
func appendModifiedUTF8(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r != 0 && r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = appendThreeByte(dst, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = appendThreeByte(dst, hi)
			dst = appendThreeByte(dst, lo)
		}
	}
	return dst
}

func appendThreeByte(dst []byte, r rune) []byte {
	return append(dst, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// modifiedUTF8Len returns the encoded length of s in modified UTF-8.
func modifiedUTF8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r != 0 && r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// decodeModifiedUTF8 decodes modified UTF-8 text. Unpaired surrogates
// decode to U+FFFD.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", ErrMalformedString
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", ErrMalformedString
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", ErrMalformedString
		}
	}
	runes := utf16.Decode(units)
	out := make([]byte, 0, len(b))
	for _, r := range runes {
		out = utf8.AppendRune(out, r)
	}
	return string(out), nil
}

// EncodedLen returns the number of bytes s occupies in a module, not
// counting its length prefix.
func EncodedLen(s string) int {
	return modifiedUTF8Len(s)
}
