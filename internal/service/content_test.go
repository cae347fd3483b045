package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docvault/internal/model"
)

func TestVerifyContent(t *testing.T) {
	tests := []struct {
		name    string
		typ     model.DocumentType
		data    []byte
		wantErr error
	}{
		{name: "pdf", typ: model.TypePDF, data: []byte("%PDF-1.7\n...")},
		{name: "docx", typ: model.TypeDOCX, data: []byte("PK\x03\x04rest")},
		{name: "doc", typ: model.TypeDOC, data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1}},
		{name: "txt", typ: model.TypeTXT, data: []byte("plain text, héllo")},
		{name: "pdf without header", typ: model.TypePDF, data: []byte("hello"), wantErr: ErrCorrupted},
		{name: "docx that is not a zip", typ: model.TypeDOCX, data: []byte("%PDF"), wantErr: ErrCorrupted},
		{name: "binary txt", typ: model.TypeTXT, data: []byte{0xff, 0xfe, 0x00, 0xc3, 0x28, 'a', 'b', 'c'}, wantErr: ErrCorrupted},
		{name: "empty", typ: model.TypeTXT, data: nil, wantErr: ErrCorrupted},
		{name: "unknown type", typ: "exe", data: []byte("MZ"), wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyContent(tt.typ, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
