package strbuf

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// DecodeLatin1 converts Latin-1 bytes to UTF-8. Pure ASCII input is
// returned as is; only bytes in 0x80..0xFF need the decoder.
func DecodeLatin1(data []byte) (string, error) {
	if isASCII(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("strbuf: decode latin-1: %w", err)
	}
	return string(decoded), nil
}

// EncodeLatin1 converts UTF-8 to Latin-1 bytes. Runes outside Latin-1
// cannot be represented and fail the conversion.
func EncodeLatin1(s string) ([]byte, error) {
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("strbuf: encode latin-1: %w", err)
	}
	return encoded, nil
}

// EncodeUTF16LE encodes a string as UTF-16LE without a terminator or BOM.
func EncodeUTF16LE(s string) []byte {
	codes := utf16.Encode([]rune(s))
	buf := make([]byte, len(codes)*2)
	for i, code := range codes {
		binary.LittleEndian.PutUint16(buf[i*2:], code)
	}
	return buf
}

// DecodeUTF16LE decodes UTF-16LE bytes to UTF-8. The input length must be
// even.
func DecodeUTF16LE(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("strbuf: utf-16 input has odd length %d", len(data))
	}
	codes := make([]uint16, len(data)/2)
	for i := range codes {
		codes[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return string(utf16.Decode(codes)), nil
}

func isASCII(data []byte) bool {
	for _, c := range data {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
