package image

import (
	"errors"
	"fmt"
)

// ErrSniffUnavailable is returned by sniffers that cannot inspect content.
var ErrSniffUnavailable = errors.New("content sniffing unavailable")

// CorruptImageError reports bytes that do not decode as an image.
type CorruptImageError struct {
	Reason string
}

func (e *CorruptImageError) Error() string {
	return fmt.Sprintf("corrupt image: %s", e.Reason)
}

// SniffResult is the format and size read from image bytes.
type SniffResult struct {
	Format string
	Width  int
	Height int
}

// MimeType returns image/<format>.
func (r *SniffResult) MimeType() string {
	return "image/" + r.Format
}

// Dimensions returns the sniffed size, or nil when it is not positive.
func (r *SniffResult) Dimensions() *Dimensions {
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	return &Dimensions{Width: r.Width, Height: r.Height}
}

// ContentSniffer inspects raw bytes to establish the real image format.
//
// Sniff returns ErrSniffUnavailable when the implementation has no decoding
// capability, or a *CorruptImageError when the bytes are not a valid image.
type ContentSniffer interface {
	Sniff(data []byte) (*SniffResult, error)
	Mode() string
}
