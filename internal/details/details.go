// Package details renders the metadata of a stored file for people: the
// thumbnail descriptor and the label/value rows of the details view.
package details

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/storeit/internal/api"
)

// DateLayout renders timestamps as "3:04pm, 2 Jan".
const DateLayout = "3:04pm, 2 Jan"

const (
	kb = 1024
	mb = 1024 * kb
	gb = 1024 * mb
)

// Row is one label/value pair of the details view.
type Row struct {
	Label string
	Value string
}

// Thumbnail describes what to show next to a file: the file itself for
// images, an icon otherwise.
type Thumbnail struct {
	Image bool
	// Src is the file URL for images and the icon name for everything else.
	Src string
}

var iconsByExtension = map[string]string{
	"pdf":  "file-pdf",
	"doc":  "file-doc",
	"docx": "file-docx",
	"csv":  "file-csv",
	"txt":  "file-txt",
	"xls":  "file-document",
	"xlsx": "file-document",
	"svg":  "file-image",
}

var iconsByType = map[string]string{
	"image":    "file-image",
	"document": "file-document",
	"video":    "file-video",
	"audio":    "file-audio",
}

// Describe returns the details rows of f.
func Describe(f *api.File) []Row {
	return []Row{
		{Label: "Format:", Value: f.Extension},
		{Label: "Size:", Value: FormatSize(f.Size)},
		{Label: "Owner:", Value: f.Owner.FullName},
		{Label: "Last edit:", Value: FormatTime(f.UpdatedAt)},
	}
}

// ThumbnailOf picks the thumbnail for f.
func ThumbnailOf(f *api.File) Thumbnail {
	ext := strings.ToLower(f.Extension)
	if f.Type == "image" && ext != "svg" && f.URL != "" {
		return Thumbnail{Image: true, Src: f.URL}
	}
	if icon, ok := iconsByExtension[ext]; ok {
		return Thumbnail{Src: icon}
	}
	if icon, ok := iconsByType[f.Type]; ok {
		return Thumbnail{Src: icon}
	}
	return Thumbnail{Src: "file-other"}
}

// FormatSize renders a byte count as "N Bytes", "x.y KB", "x.y MB" or "x.y GB".
func FormatSize(size int64) string {
	switch {
	case size < kb:
		return fmt.Sprintf("%d Bytes", size)
	case size < mb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/gb)
	}
}

// FormatTime renders t in the local time zone; the zero time renders as "-".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// Render writes the header (thumbnail, name, creation time) followed by the
// aligned details rows.
func Render(w io.Writer, f *api.File) error {
	thumb := ThumbnailOf(f)
	kind := "icon"
	if thumb.Image {
		kind = "image"
	}

	if _, err := fmt.Fprintf(w, "[%s: %s]\n%s\n%s\n\n", kind, thumb.Src, f.Name, FormatTime(f.CreatedAt)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range Describe(f) {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Value)
	}
	return tw.Flush()
}
