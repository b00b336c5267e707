package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentPath(t *testing.T) {
	at := time.UnixMilli(1714554000123)

	tests := []struct {
		filename string
		want     string
	}{
		{"cv.pdf", "attachments/7/obstetrician_of_the_year/1714554000123/cv.pdf"},
		{"../../etc/passwd", "attachments/7/obstetrician_of_the_year/1714554000123/passwd"},
		{`C:\Users\me\letter.pdf`, "attachments/7/obstetrician_of_the_year/1714554000123/letter.pdf"},
		{"", "attachments/7/obstetrician_of_the_year/1714554000123/file"},
		{"bad\x00name.pdf", "attachments/7/obstetrician_of_the_year/1714554000123/badname.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AttachmentPath(7, "obstetrician_of_the_year", at, tt.filename))
	}
}

func TestMinioStore_ObjectURL(t *testing.T) {
	s := &MinioStore{bucket: "nominations", publicURL: "https://files.example.org"}
	assert.Equal(t,
		"https://files.example.org/nominations/attachments/7/cat/1/my%20cv.pdf",
		s.objectURL("attachments/7/cat/1/my cv.pdf"))
}
