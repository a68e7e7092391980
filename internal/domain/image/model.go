package image

import (
	"strings"
	"time"
)

// Image is the persisted metadata of one stored upload.
type Image struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	Width            *int      `json:"width"`
	Height           *int      `json:"height"`
	UploadDate       time.Time `json:"upload_date"`
	URL              string    `json:"url"`
}

// Dimensions returns the pixel size, or nil when either side is unknown.
func (i *Image) Dimensions() *Dimensions {
	if i == nil || i.Width == nil || i.Height == nil || *i.Width <= 0 || *i.Height <= 0 {
		return nil
	}
	return &Dimensions{Width: *i.Width, Height: *i.Height}
}

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UploadRequest carries a raw multipart body and the boundary from its Content-Type.
type UploadRequest struct {
	Body     []byte
	Boundary string
}

// BuildURL joins the external base path and a stored filename.
func BuildURL(base, storedFilename string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	return base + "/" + storedFilename
}
