package sniffer

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

func testImage(width, height int) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(width, height)))
	return buf.Bytes()
}

func TestDecoding_Formats(t *testing.T) {
	var jpegBuf, gifBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, testImage(16, 8), nil))
	require.NoError(t, gif.Encode(&gifBuf, testImage(3, 5), nil))

	tests := []struct {
		name   string
		data   []byte
		format string
		width  int
		height int
	}{
		{name: "png", data: encodePNG(t, 10, 10), format: "png", width: 10, height: 10},
		{name: "jpeg", data: jpegBuf.Bytes(), format: "jpeg", width: 16, height: 8},
		{name: "gif", data: gifBuf.Bytes(), format: "gif", width: 3, height: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewDecoding(0).Sniff(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.format, result.Format)
			assert.Equal(t, "image/"+tt.format, result.MimeType())
			assert.Equal(t, tt.width, result.Width)
			assert.Equal(t, tt.height, result.Height)
		})
	}
}

func TestDecoding_Corrupt(t *testing.T) {
	valid := encodePNG(t, 20, 20)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "plain text", data: []byte("this is definitely not an image")},
		{name: "truncated png", data: valid[:len(valid)/2]},
		{name: "header only", data: valid[:33]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoding(0).Sniff(tt.data)
			var corrupt *domain.CorruptImageError
			require.True(t, errors.As(err, &corrupt), "got %v", err)
			assert.NotEmpty(t, corrupt.Reason)
		})
	}
}

func TestDecoding_PixelLimit(t *testing.T) {
	data := encodePNG(t, 10, 10)

	_, err := NewDecoding(99).Sniff(data)
	var corrupt *domain.CorruptImageError
	require.True(t, errors.As(err, &corrupt))
	assert.Contains(t, corrupt.Reason, "99 pixels")

	_, err = NewDecoding(100).Sniff(data)
	assert.NoError(t, err)
}

func TestExtension_AlwaysUnavailable(t *testing.T) {
	_, err := Extension{}.Sniff(encodePNG(t, 1, 1))
	assert.ErrorIs(t, err, domain.ErrSniffUnavailable)
	assert.Equal(t, "extension", Extension{}.Mode())
}

func TestNew_SelectsByConfig(t *testing.T) {
	assert.Equal(t, "decoding", New(&config.Config{ContentSniffing: true}, zerolog.Nop()).Mode())
	assert.Equal(t, "extension", New(&config.Config{ContentSniffing: false}, zerolog.Nop()).Mode())
}
