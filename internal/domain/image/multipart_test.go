package image_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

func TestParseMultipart(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		boundary     string
		wantOK       bool
		wantFilename string
		wantData     string
	}{
		{
			name: "first file part wins over later ones",
			body: "--XYZ\r\nContent-Disposition: form-data; name=\"note\"\r\n\r\nhello\r\n" +
				"--XYZ\r\nContent-Disposition: form-data; name=\"file\"; filename=\"a.PNG\"\r\nContent-Type: image/png\r\n\r\nDATA\r\n" +
				"--XYZ\r\nContent-Disposition: form-data; name=\"other\"; filename=\"b.png\"\r\n\r\nOTHER\r\n--XYZ--\r\n",
			boundary:     "XYZ",
			wantOK:       true,
			wantFilename: "a.PNG",
			wantData:     "DATA",
		},
		{
			name:         "content keeps inner line breaks",
			body:         "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"x.gif\"\r\n\r\nA\r\n\r\nB\r\n--b--\r\n",
			boundary:     "b",
			wantOK:       true,
			wantFilename: "x.gif",
			wantData:     "A\r\n\r\nB",
		},
		{
			name:         "filename is taken literally",
			body:         "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"my%20photo \xc3\xa9.jpg\"\r\n\r\nZ\r\n--b--\r\n",
			boundary:     "b",
			wantOK:       true,
			wantFilename: "my%20photo \xc3\xa9.jpg",
			wantData:     "Z",
		},
		{
			name:     "missing boundary",
			body:     "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"x.gif\"\r\n\r\nA\r\n--b--\r\n",
			boundary: "",
		},
		{
			name:     "no file part",
			body:     "--b\r\nContent-Disposition: form-data; name=\"note\"\r\n\r\nhello\r\n--b--\r\n",
			boundary: "b",
		},
		{
			name:     "file part without header separator",
			body:     "--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"x.gif\"\r\n--b--\r\n",
			boundary: "b",
		},
		{
			name:     "boundary not present in body",
			body:     "garbage",
			boundary: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, ok := domain.ParseMultipart([]byte(tt.body), tt.boundary)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantFilename, part.Filename)
			assert.Equal(t, tt.wantData, string(part.Data))
		})
	}
}
