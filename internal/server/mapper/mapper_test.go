package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		wantType string
		wantExt  string
	}{
		{"report.pdf", TypeDocument, "pdf"},
		{"notes.md", TypeDocument, "md"},
		{"design.afphoto", TypeDocument, "afphoto"},
		{"photo.JPG", TypeImage, "JPG"},
		{"archive.tar.gz", TypeOther, "gz"},
		{"clip.mkv", TypeVideo, "mkv"},
		{"song.flac", TypeAudio, "flac"},
		{"Makefile", TypeOther, ""},
		{"trailing.", TypeOther, ""},
		{".bashrc", TypeOther, "bashrc"},
		{"", TypeOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotExt := Classify(tt.name)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantExt, gotExt)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		typ, ext := Classify("a.b.c.png")
		assert.Equal(t, TypeImage, typ)
		assert.Equal(t, "png", ext)
	}
}

func TestURLBuilder_Build(t *testing.T) {
	b := URLBuilder{BaseURL: "http://127.0.0.1:9000/", Bucket: "storeit", Prefix: "proj"}
	assert.Equal(t, "http://127.0.0.1:9000/storeit/proj/obj-1", b.Build("obj-1"))

	b = URLBuilder{BaseURL: "https://cdn.example.com", Bucket: "storeit"}
	assert.Equal(t, "https://cdn.example.com/storeit/obj-1", b.Build("obj-1"))
}
