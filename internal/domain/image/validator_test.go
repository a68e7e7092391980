package image_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

const fiveMB = 5 * 1024 * 1024

func defaultRules() domain.ValidationRules {
	return domain.ValidationRules{
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		AllowedMimeTypes:  []string{"image/jpeg", "image/png", "image/gif"},
		MaxSize:           fiveMB,
	}
}

func TestValidator_Validate(t *testing.T) {
	small := []byte("payload")

	tests := []struct {
		name       string
		sniffer    domain.ContentSniffer
		filename   string
		data       []byte
		wantMime   string
		wantReason domain.RejectionReason
		wantMsg    string
	}{
		{
			name:     "sniffed png accepted",
			sniffer:  pngSniffer(10, 10),
			filename: "a.png",
			data:     small,
			wantMime: "image/png",
		},
		{
			name:     "extension check ignores case",
			sniffer:  pngSniffer(1, 1),
			filename: "a.PNG",
			data:     small,
			wantMime: "image/png",
		},
		{
			name:       "unsupported extension names the allowed set",
			sniffer:    pngSniffer(1, 1),
			filename:   "notes.txt",
			data:       small,
			wantReason: domain.RejectUnsupportedExtension,
			wantMsg:    "Unsupported file format. Allowed: .gif, .jpeg, .jpg, .png",
		},
		{
			name:       "dotfile has no extension",
			sniffer:    pngSniffer(1, 1),
			filename:   ".png",
			data:       small,
			wantReason: domain.RejectUnsupportedExtension,
		},
		{
			name:       "missing extension",
			sniffer:    pngSniffer(1, 1),
			filename:   "image",
			data:       small,
			wantReason: domain.RejectUnsupportedExtension,
		},
		{
			name:     "exactly at the size limit",
			sniffer:  pngSniffer(1, 1),
			filename: "big.png",
			data:     bytes.Repeat([]byte{1}, fiveMB),
			wantMime: "image/png",
		},
		{
			name:       "one byte over the size limit",
			sniffer:    pngSniffer(1, 1),
			filename:   "big.png",
			data:       bytes.Repeat([]byte{1}, fiveMB+1),
			wantReason: domain.RejectTooLarge,
			wantMsg:    "File size exceeds 5.0 MB limit",
		},
		{
			name:       "corrupt content",
			sniffer:    stubSniffer{err: &domain.CorruptImageError{Reason: "unknown format"}},
			filename:   "x.jpg",
			data:       []byte("just some text"),
			wantReason: domain.RejectCorrupt,
			wantMsg:    "Invalid or corrupted image file: unknown format",
		},
		{
			name:       "sniffed format outside the allow-list",
			sniffer:    stubSniffer{result: &domain.SniffResult{Format: "webp", Width: 2, Height: 2}},
			filename:   "x.png",
			data:       small,
			wantReason: domain.RejectInvalidFormat,
			wantMsg:    "Invalid image format",
		},
		{
			name:     "sniffer unavailable trusts the extension",
			sniffer:  unavailableSniffer(),
			filename: "photo.JPEG",
			data:     small,
			wantMime: "image/jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.NewValidator(defaultRules(), tt.sniffer)
			verdict := v.Validate(tt.data, tt.filename)

			if tt.wantReason == "" {
				assert.True(t, verdict.Accepted(), verdict.Message)
				assert.Equal(t, tt.wantMime, verdict.MimeType)
				return
			}
			assert.False(t, verdict.Accepted())
			assert.Equal(t, tt.wantReason, verdict.Reason)
			assert.Empty(t, verdict.MimeType)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, verdict.Message)
			}
		})
	}
}

func TestValidator_UnavailableSnifferRejectsUnguessableType(t *testing.T) {
	rules := defaultRules()
	rules.AllowedExtensions = append(rules.AllowedExtensions, ".raw")

	v := domain.NewValidator(rules, unavailableSniffer())
	verdict := v.Validate([]byte("data"), "camera.raw")

	assert.Equal(t, domain.RejectInvalidFormat, verdict.Reason)
	assert.Equal(t, "Invalid image format", verdict.Message)
}

func TestExtensionOf(t *testing.T) {
	cases := map[string]string{
		"a.PNG":            ".png",
		"archive.tar.gif":  ".gif",
		"dir/sub/photo.Jp": ".jp",
		`C:\tmp\x.jpeg`:    ".jpeg",
		".png":             "",
		"trailing.":        "",
		"plain":            "",
		"":                 "",
	}
	for input, want := range cases {
		assert.Equal(t, want, domain.ExtensionOf(input), input)
	}
}
