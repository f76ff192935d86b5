// Package textenc detects and transcodes the byte-order-marked encodings
// internal/snippet and internal/patch both need to read and, in patch's
// case, write back without corrupting non-UTF-8 source files.
package textenc

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies the byte-order mark (if any) a file started with.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF8BOM
	UTF16LE
	UTF16BE
	UTF32BE
)

// Sniff inspects data for a leading byte-order mark and returns the detected
// Encoding along with the remaining bytes (BOM stripped, still in the
// original encoding — callers need Decode to get UTF-8 text).
func Sniff(data []byte) (Encoding, []byte) {
	switch {
	case len(data) >= 4 && data[0] == 0x00 && data[1] == 0x00 && data[2] == 0xFE && data[3] == 0xFF:
		return UTF32BE, data[4:]
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return UTF8BOM, data[3:]
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return UTF16LE, data[2:]
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return UTF16BE, data[2:]
	default:
		return UTF8, data
	}
}

// BOMPrefix returns the byte-order-mark bytes for enc, or nil if it has none.
func BOMPrefix(enc Encoding) []byte {
	switch enc {
	case UTF8BOM:
		return []byte{0xEF, 0xBB, 0xBF}
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	case UTF32BE:
		return []byte{0x00, 0x00, 0xFE, 0xFF}
	default:
		return nil
	}
}

// Decode transcodes body (already BOM-stripped, still in its original
// encoding) into UTF-8 text.
func Decode(enc Encoding, body []byte) (string, error) {
	switch enc {
	case UTF8, UTF8BOM:
		return string(body), nil
	case UTF16LE:
		return decodeUTF16(body, unicode.LittleEndian)
	case UTF16BE:
		return decodeUTF16(body, unicode.BigEndian)
	case UTF32BE:
		return decodeUTF32BE(body)
	default:
		return string(body), nil
	}
}

// Encode transcodes UTF-8 text back into enc's original encoding, the
// inverse of Decode. The returned bytes do not include the BOM; prepend
// BOMPrefix(enc) when writing a file back out.
func Encode(enc Encoding, text string) ([]byte, error) {
	switch enc {
	case UTF8, UTF8BOM:
		return []byte(text), nil
	case UTF16LE:
		return encodeUTF16(text, unicode.LittleEndian)
	case UTF16BE:
		return encodeUTF16(text, unicode.BigEndian)
	case UTF32BE:
		return encodeUTF32BE(text), nil
	default:
		return []byte(text), nil
	}
}

func decodeUTF16(body []byte, order unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, body)
	if err != nil {
		return "", fmt.Errorf("decoding utf-16: %w", err)
	}
	return string(out), nil
}

func encodeUTF16(text string, order unicode.Endianness) ([]byte, error) {
	encoder := unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder()
	out, _, err := transform.Bytes(encoder, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding utf-16: %w", err)
	}
	return out, nil
}

// decodeUTF32BE and encodeUTF32BE are hand-rolled: golang.org/x/text has no
// UTF-32 codec, so there's no ecosystem library to reach for here.
func decodeUTF32BE(body []byte) (string, error) {
	if len(body)%4 != 0 {
		return "", fmt.Errorf("decoding utf-32: odd byte length %d", len(body))
	}
	var sb strings.Builder
	for i := 0; i+4 <= len(body); i += 4 {
		sb.WriteRune(rune(binary.BigEndian.Uint32(body[i : i+4])))
	}
	return sb.String(), nil
}

func encodeUTF32BE(text string) []byte {
	out := make([]byte, 0, len(text)*4)
	for _, r := range text {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(r))
		out = append(out, buf[:]...)
	}
	return out
}
