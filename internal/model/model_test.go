package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTypeFromName(t *testing.T) {
	tests := []struct {
		name   string
		want   DocumentType
		wantOK bool
	}{
		{"report.pdf", TypePDF, true},
		{"Letter.DOCX", TypeDOCX, true},
		{"legacy.doc", TypeDOC, true},
		{"notes.txt", TypeTXT, true},
		{"image.png", DocumentType("png"), false},
		{"README", DocumentType(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DocumentTypeFromName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentType_ContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", TypePDF.ContentType())
	assert.Equal(t, "text/plain", TypeTXT.ContentType())
	assert.Equal(t, "application/octet-stream", DocumentType("exe").ContentType())
}

func TestDocument_InFolder(t *testing.T) {
	a, b := "a", "b"
	doc := &Document{FolderID: &a}

	assert.True(t, doc.InFolder(&a))
	assert.False(t, doc.InFolder(&b))
	assert.False(t, doc.InFolder(nil))
	assert.True(t, (&Document{}).InFolder(nil))
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "/A", ChildPath("", "A"))
	assert.Equal(t, "/A", ChildPath("/", "A"))
	assert.Equal(t, "/A/B", ChildPath("/A", "B"))
}

func TestRebasePath(t *testing.T) {
	assert.Equal(t, "/A2", RebasePath("/A", "/A", "/A2"))
	assert.Equal(t, "/A2/B", RebasePath("/A/B", "/A", "/A2"))
	assert.Equal(t, "/A2/B/C", RebasePath("/A/B/C", "/A", "/A2"))
	assert.Equal(t, "/AB", RebasePath("/AB", "/A", "/A2"))
}
