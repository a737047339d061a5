// Package mapper derives file record attributes: the type classification of a
// file name and the public URL of a stored object.
package mapper

import (
	"strings"
)

// File types.
const (
	TypeDocument = "document"
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeOther    = "other"
)

var typesByExtension = map[string]string{}

func init() {
	for t, exts := range map[string][]string{
		TypeDocument: {"pdf", "doc", "docx", "txt", "xls", "xlsx", "csv", "rtf", "ods", "ppt", "odp", "md",
			"html", "htm", "epub", "pages", "fig", "psd", "ai", "indd", "xd", "sketch", "afdesign", "afphoto"},
		TypeImage: {"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp"},
		TypeVideo: {"mp4", "avi", "mov", "mkv", "webm"},
		TypeAudio: {"mp3", "wav", "ogg", "flac"},
	} {
		for _, e := range exts {
			typesByExtension[e] = t
		}
	}
}

// Classify returns the type and extension of a file name. The extension is
// the text after the last dot, kept as written; a name without a dot has an
// empty extension. Type lookup ignores case and defaults to TypeOther.
func Classify(name string) (fileType string, extension string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return TypeOther, ""
	}

	extension = name[i+1:]
	if t, ok := typesByExtension[strings.ToLower(extension)]; ok {
		return t, extension
	}
	return TypeOther, extension
}

// URLBuilder joins the public base URL, the bucket and the object key.
type URLBuilder struct {
	BaseURL string
	Bucket  string
	// Prefix is the object key prefix, without the trailing slash.
	Prefix string
}

// Build returns the URL of the object stored under bucketFileID. No network
// call is made.
func (b URLBuilder) Build(bucketFileID string) string {
	parts := make([]string, 0, 4)
	parts = append(parts, strings.TrimRight(b.BaseURL, "/"))
	if b.Bucket != "" {
		parts = append(parts, strings.Trim(b.Bucket, "/"))
	}
	if b.Prefix != "" {
		parts = append(parts, strings.Trim(b.Prefix, "/"))
	}
	parts = append(parts, bucketFileID)
	return strings.Join(parts, "/")
}
