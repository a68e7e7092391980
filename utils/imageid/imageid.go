package imageid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random 128-bit identifier rendered in canonical UUID form.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether value is a canonical, lower-case image id.
func IsValid(value string) bool {
	if len(value) != 36 || strings.ToLower(value) != value {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// SplitStoredFilename separates a stored filename into id and extension.
// ok is false when the name is not of the form <id><.ext>.
func SplitStoredFilename(name string) (id, ext string, ok bool) {
	if len(name) <= 36 {
		return "", "", false
	}
	id, ext = name[:36], name[36:]
	if !IsValid(id) || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		return "", "", false
	}
	return id, ext, true
}
