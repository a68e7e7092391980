package image

import (
	"fmt"

	"github.com/janhq/image-storage-api/utils/platformerrors"
)

// Stage names a step of the upload pipeline.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StageStore    Stage = "store"
	StagePersist  Stage = "persist"
)

// UploadError is the terminal error of a failed upload.
type UploadError struct {
	Stage  Stage
	Reason string
	// Rejection is set for validation failures.
	Rejection RejectionReason
	// OrphanedFile names a stored object left without a metadata record.
	OrphanedFile string
	Err          error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("upload %s: %s", e.Stage, e.Reason)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ErrorType classifies the failure: client faults for parse and validate,
// server faults for store and persist.
func (e *UploadError) ErrorType() platformerrors.ErrorType {
	switch e.Stage {
	case StageParse, StageValidate:
		return platformerrors.ErrorTypeValidation
	case StageStore:
		return platformerrors.ErrorTypeStorage
	case StagePersist:
		return platformerrors.ErrorTypeDatabaseError
	default:
		return platformerrors.ErrorTypeInternal
	}
}

// ClientFault reports whether the caller can fix the request.
func (e *UploadError) ClientFault() bool {
	return e.ErrorType() == platformerrors.ErrorTypeValidation
}
