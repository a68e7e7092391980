package image_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/utils/platformerrors"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) List(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStorage) Health(context.Context) error { return nil }
func (m *memoryStorage) Name() string                 { return "memory" }

type memoryRepository struct {
	mu        sync.Mutex
	records   []*domain.Image
	insertErr error
}

func (r *memoryRepository) Insert(_ context.Context, img *domain.Image) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.ID == img.ID {
			return errors.New("duplicate id")
		}
	}
	r.records = append(r.records, img)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.ID == id {
			return existing, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "Image not found", nil, "test")
}

func (r *memoryRepository) ListRecent(_ context.Context, limit int) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Image, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

func (r *memoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) ListStoredFilenames(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.records))
	for _, existing := range r.records {
		names = append(names, existing.StoredFilename)
	}
	return names, nil
}

func (r *memoryRepository) Ping(context.Context) error { return nil }

// stubSniffer returns a fixed answer regardless of input.
type stubSniffer struct {
	result *domain.SniffResult
	err    error
}

func (s stubSniffer) Sniff([]byte) (*domain.SniffResult, error) { return s.result, s.err }
func (s stubSniffer) Mode() string                               { return "stub" }

func pngSniffer(width, height int) stubSniffer {
	return stubSniffer{result: &domain.SniffResult{Format: "png", Width: width, Height: height}}
}

func unavailableSniffer() stubSniffer {
	return stubSniffer{err: domain.ErrSniffUnavailable}
}

func multipartBody(boundary, filename string, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Disposition: form-data; name=\"caption\"\r\n\r\nholiday\r\n")
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Disposition: form-data; name=\"file\"; filename=\"" + filename + "\"\r\n")
	buf.WriteString("Content-Type: application/octet-stream\r\n\r\n")
	buf.Write(data)
	buf.WriteString("\r\n--" + boundary + "--\r\n")
	return buf.Bytes()
}
