package platformerrors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_01")
	err := NewError(ctx, LayerRepository, ErrorTypeNotFound, "Image not found", nil, "code-1")

	assert.Equal(t, "req_01", err.RequestID)
	assert.Equal(t, "code-1", err.UUID)
	assert.Equal(t, "[repository][NOT_FOUND][code-1] Image not found", err.Error())
}

func TestIsErrorType_UnwrapsChains(t *testing.T) {
	base := NewError(context.Background(), LayerDomain, ErrorTypeStorage, "Failed to read image", nil, "")
	wrapped := fmt.Errorf("serve: %w", base)

	assert.True(t, IsErrorType(wrapped, ErrorTypeStorage))
	assert.False(t, IsErrorType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeStorage))
	assert.False(t, IsErrorType(nil, ErrorTypeStorage))
	assert.Equal(t, "unspecified", base.UUID)
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := map[ErrorType]int{
		ErrorTypeNotFound:      http.StatusNotFound,
		ErrorTypeValidation:    http.StatusBadRequest,
		ErrorTypeConflict:      http.StatusConflict,
		ErrorTypeStorage:       http.StatusInternalServerError,
		ErrorTypeDatabaseError: http.StatusInternalServerError,
		ErrorTypeInternal:      http.StatusInternalServerError,
		ErrorType("UNKNOWN"):   http.StatusInternalServerError,
	}
	for errorType, status := range tests {
		assert.Equal(t, status, ErrorTypeToHTTPStatus(errorType), errorType)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithRequestID(context.Background(), "req_42")
	err := NewErrorWithContext(ctx, LayerRepository, ErrorTypeDatabaseError, "failed to list images",
		errors.New("database is locked"), "3b9f0e6c", map[string]any{"limit": 10})
	LogError(logger, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "failed to list images", line["message"])
	assert.Equal(t, "3b9f0e6c", line["error_uuid"])
	assert.Equal(t, "DATABASE_ERROR", line["error_type"])
	assert.Equal(t, "repository", line["layer"])
	assert.Equal(t, "req_42", line["request_id"])
	assert.Equal(t, "database is locked", line["error"])
	assert.Equal(t, float64(10), line["limit"])

	buf.Reset()
	LogError(logger, nil)
	assert.Empty(t, buf.String())
}
