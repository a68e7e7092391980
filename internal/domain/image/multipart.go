package image

import "bytes"

// Part is a file part extracted from a multipart body.
type Part struct {
	Filename string
	Data     []byte
}

var (
	headerSeparator   = []byte("\r\n\r\n")
	lineTerminator    = []byte("\r\n")
	filenameMarker    = []byte(`filename="`)
	dispositionHeader = []byte("content-disposition")
)

// ParseMultipart returns the first part whose headers carry a quoted filename
// attribute. Form fields without a filename are skipped and later file parts
// are ignored. The filename is returned exactly as quoted by the client.
//
// ok is false when boundary is empty, when no part has a filename, or when
// the selected part has no blank line between headers and content.
func ParseMultipart(body []byte, boundary string) (part Part, ok bool) {
	if boundary == "" {
		return Part{}, false
	}

	delimiter := []byte("--" + boundary)
	for _, raw := range bytes.Split(body, delimiter) {
		headerEnd := bytes.Index(raw, headerSeparator)
		headers := raw
		if headerEnd >= 0 {
			headers = raw[:headerEnd]
		}

		filename, found := quotedFilename(headers)
		if !found {
			continue
		}
		if headerEnd < 0 {
			return Part{}, false
		}

		content := raw[headerEnd+len(headerSeparator):]
		content = bytes.TrimSuffix(content, lineTerminator)
		return Part{Filename: filename, Data: content}, true
	}
	return Part{}, false
}

func quotedFilename(headers []byte) (string, bool) {
	if !bytes.Contains(bytes.ToLower(headers), dispositionHeader) {
		return "", false
	}
	start := bytes.Index(headers, filenameMarker)
	if start < 0 {
		return "", false
	}
	rest := headers[start+len(filenameMarker):]
	if eol := bytes.Index(rest, lineTerminator); eol >= 0 {
		rest = rest[:eol]
	}
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return string(rest[:end]), true
}
