package image

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// RejectionReason tags why an upload was refused.
type RejectionReason string

const (
	RejectUnsupportedExtension RejectionReason = "unsupported_extension"
	RejectTooLarge             RejectionReason = "file_too_large"
	RejectCorrupt              RejectionReason = "corrupt_image"
	RejectInvalidFormat        RejectionReason = "invalid_format"
)

// Verdict is the outcome of validating one file. Exactly one of MimeType
// (accepted) or Reason (rejected) is set.
type Verdict struct {
	MimeType  string
	Extension string
	Sniff     *SniffResult
	Reason    RejectionReason
	Message   string
}

// Accepted reports whether the file passed every check.
func (v Verdict) Accepted() bool {
	return v.Reason == ""
}

// ValidationRules are the allow-lists and limits applied to uploads.
type ValidationRules struct {
	AllowedExtensions []string
	AllowedMimeTypes  []string
	MaxSize           int64
}

// Validator applies extension, size and content checks in that order.
type Validator struct {
	rules      ValidationRules
	sniffer    ContentSniffer
	extensions map[string]struct{}
	mimeTypes  map[string]struct{}
	allowedMsg string
}

func NewValidator(rules ValidationRules, sniffer ContentSniffer) *Validator {
	v := &Validator{
		rules:      rules,
		sniffer:    sniffer,
		extensions: make(map[string]struct{}, len(rules.AllowedExtensions)),
		mimeTypes:  make(map[string]struct{}, len(rules.AllowedMimeTypes)),
	}
	for _, ext := range rules.AllowedExtensions {
		v.extensions[strings.ToLower(ext)] = struct{}{}
	}
	for _, mt := range rules.AllowedMimeTypes {
		v.mimeTypes[strings.ToLower(mt)] = struct{}{}
	}

	sorted := make([]string, 0, len(v.extensions))
	for ext := range v.extensions {
		sorted = append(sorted, ext)
	}
	sort.Strings(sorted)
	v.allowedMsg = strings.Join(sorted, ", ")
	return v
}

// Validate checks data uploaded under filename. Rejections are returned in
// the Verdict; only an unexpected sniffer failure is reported as corrupt.
func (v *Validator) Validate(data []byte, filename string) Verdict {
	ext := ExtensionOf(filename)
	if !v.ExtensionAllowed(ext) {
		return reject(RejectUnsupportedExtension, fmt.Sprintf("Unsupported file format. Allowed: %s", v.allowedMsg))
	}

	if int64(len(data)) > v.rules.MaxSize {
		return reject(RejectTooLarge, fmt.Sprintf("File size exceeds %.1f MB limit", float64(v.rules.MaxSize)/(1024*1024)))
	}

	result, err := v.sniffer.Sniff(data)
	switch {
	case err == nil:
		mimeType := result.MimeType()
		if !v.mimeAllowed(mimeType) {
			return reject(RejectInvalidFormat, "Invalid image format")
		}
		return Verdict{MimeType: mimeType, Extension: ext, Sniff: result}
	case errors.Is(err, ErrSniffUnavailable):
		mimeType, ok := GuessMimeType(ext)
		if !ok || !v.mimeAllowed(mimeType) {
			return reject(RejectInvalidFormat, "Invalid image format")
		}
		return Verdict{MimeType: mimeType, Extension: ext}
	default:
		reason := err.Error()
		var corrupt *CorruptImageError
		if errors.As(err, &corrupt) {
			reason = corrupt.Reason
		}
		return reject(RejectCorrupt, "Invalid or corrupted image file: "+reason)
	}
}

// ExtensionAllowed reports whether ext, lower-case with its leading dot, is
// on the allow-list.
func (v *Validator) ExtensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := v.extensions[ext]
	return ok
}

func (v *Validator) mimeAllowed(mimeType string) bool {
	_, ok := v.mimeTypes[strings.ToLower(mimeType)]
	return ok
}

func reject(reason RejectionReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// ExtensionOf returns the lower-cased suffix of the last path element,
// including the dot. Dotfiles such as ".png" and names ending in "." have none.
func ExtensionOf(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	ext := path.Ext(base)
	if ext == "." || ext == base {
		return ""
	}
	return strings.ToLower(ext)
}

var extensionMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// GuessMimeType maps a dotted extension to a MIME type from the name alone.
func GuessMimeType(ext string) (string, bool) {
	mimeType, ok := extensionMimeTypes[strings.ToLower(ext)]
	return mimeType, ok
}
