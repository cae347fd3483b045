package service

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"docvault/internal/model"
)

// contentHeadSize is how much of a file the signature check looks at.
const contentHeadSize = 1024

var (
	magicPDF = []byte("%PDF")
	magicZIP = []byte("PK\x03\x04")
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// verifyContent runs a cheap signature check on data for its declared type.
// Text files only need to be valid UTF-8 in their first kilobyte.
func verifyContent(t model.DocumentType, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty content", ErrCorrupted)
	}

	var ok bool
	switch t {
	case model.TypePDF:
		ok = bytes.HasPrefix(data, magicPDF)
	case model.TypeDOCX:
		ok = bytes.HasPrefix(data, magicZIP)
	case model.TypeDOC:
		ok = bytes.HasPrefix(data, magicOLE)
	case model.TypeTXT:
		head := data[:min(len(data), contentHeadSize)]
		// A multi-byte rune may be cut at the boundary.
		for i := 0; i < utf8.UTFMax && len(head) > 0 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
		ok = utf8.Valid(head)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, t)
	}
	if !ok {
		return fmt.Errorf("%w: content does not look like %s", ErrCorrupted, t)
	}
	return nil
}
