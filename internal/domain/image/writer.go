package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/janhq/image-storage-api/utils/imageid"
)

// ErrObjectNotFound is returned by Storage.Open for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// Storage is a flat, write-once object namespace keyed by stored filename.
type Storage interface {
	// Put writes the full object or nothing.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
	Name() string
}

// IDChecker reports whether an id is already recorded.
type IDChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// StoredObject identifies a written upload.
type StoredObject struct {
	ID             string
	StoredFilename string
}

const maxIDDraws = 3

// Writer assigns ids to validated uploads and writes them to storage.
type Writer struct {
	storage Storage
	newID   func() string
	checker IDChecker
}

// WriterOption customizes a Writer.
type WriterOption func(*Writer)

// WithIDGenerator replaces the random id source.
func WithIDGenerator(fn func() string) WriterOption {
	return func(w *Writer) { w.newID = fn }
}

// WithExistenceCheck redraws ids already known to checker.
func WithExistenceCheck(checker IDChecker) WriterOption {
	return func(w *Writer) { w.checker = checker }
}

func NewWriter(storage Storage, opts ...WriterOption) *Writer {
	w := &Writer{storage: storage, newID: imageid.New}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// StoredFilename derives the object name from an id and dotted extension.
func StoredFilename(id, ext string) string {
	return id + strings.ToLower(ext)
}

// Store writes data under a fresh <id><ext> name.
func (w *Writer) Store(ctx context.Context, data []byte, ext, contentType string) (StoredObject, error) {
	id, err := w.drawID(ctx)
	if err != nil {
		return StoredObject{}, err
	}

	obj := StoredObject{ID: id, StoredFilename: StoredFilename(id, ext)}
	if err := w.storage.Put(ctx, obj.StoredFilename, data, contentType); err != nil {
		return StoredObject{}, fmt.Errorf("write %s: %w", obj.StoredFilename, err)
	}
	return obj, nil
}

func (w *Writer) drawID(ctx context.Context) (string, error) {
	if w.checker == nil {
		return w.newID(), nil
	}
	for i := 0; i < maxIDDraws; i++ {
		id := w.newID()
		exists, err := w.checker.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unused id after %d draws", maxIDDraws)
}
