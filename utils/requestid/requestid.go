package requestid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a req_* ULID string. IDs generated by one process sort by creation time.
func New() string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	return "req_" + strings.ToLower(id.String())
}

// Normalize returns the incoming header value when it looks usable, otherwise a new id.
func Normalize(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || len(incoming) > 128 || strings.ContainsAny(incoming, "\r\n") {
		return New()
	}
	return incoming
}
