package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/image-storage-api/internal/config"
	"github.com/janhq/image-storage-api/utils/imageid"
	"github.com/janhq/image-storage-api/utils/platformerrors"
)

// Service runs the upload pipeline and the metadata read path.
type Service struct {
	cfg       *config.Config
	repo      Repository
	storage   Storage
	sniffer   ContentSniffer
	validator *Validator
	writer    *Writer
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(cfg *config.Config, repo Repository, storage Storage, sniffer ContentSniffer, log zerolog.Logger) *Service {
	var writerOpts []WriterOption
	if cfg.IDExistenceCheck {
		writerOpts = append(writerOpts, WithExistenceCheck(repo))
	}

	return &Service{
		cfg:     cfg,
		repo:    repo,
		storage: storage,
		sniffer: sniffer,
		validator: NewValidator(ValidationRules{
			AllowedExtensions: cfg.AllowedExtensions,
			AllowedMimeTypes:  cfg.AllowedMimeTypes,
			MaxSize:           cfg.MaxFileSize,
		}, sniffer),
		writer: NewWriter(storage, writerOpts...),
		log:    log.With().Str("component", "image-service").Logger(),
		tracer: otel.Tracer("image-storage-api/image"),
		now:    time.Now,
	}
}

// SnifferMode names the content sniffer selected at startup.
func (s *Service) SnifferMode() string {
	return s.sniffer.Mode()
}

// Upload takes one multipart body through parse, validate, store, sniff and
// persist. Every failure is an *UploadError naming its stage. A persist
// failure leaves the stored file in place and reports it as OrphanedFile.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*Image, error) {
	ctx, span := s.tracer.Start(ctx, "image.upload")
	defer span.End()

	part, ok := ParseMultipart(req.Body, req.Boundary)
	if !ok || part.Filename == "" || len(part.Data) == 0 {
		return nil, s.fail(ctx, span, &UploadError{Stage: StageParse, Reason: "No file provided"})
	}
	span.AddEvent("parsed", trace.WithAttributes(attribute.Int("size", len(part.Data))))

	verdict := s.validator.Validate(part.Data, part.Filename)
	if !verdict.Accepted() {
		return nil, s.fail(ctx, span, &UploadError{Stage: StageValidate, Reason: verdict.Message, Rejection: verdict.Reason})
	}
	span.AddEvent("validated", trace.WithAttributes(attribute.String("mime_type", verdict.MimeType)))

	obj, err := s.writer.Store(ctx, part.Data, verdict.Extension, verdict.MimeType)
	if err != nil {
		return nil, s.fail(ctx, span, &UploadError{Stage: StageStore, Reason: "could not store image", Err: err})
	}
	span.AddEvent("stored", trace.WithAttributes(attribute.String("stored_filename", obj.StoredFilename)))

	dims := s.dimensions(verdict, part.Data)

	record := &Image{
		ID:               obj.ID,
		OriginalFilename: part.Filename,
		StoredFilename:   obj.StoredFilename,
		FileSize:         int64(len(part.Data)),
		MimeType:         verdict.MimeType,
		UploadDate:       s.now().UTC().Truncate(time.Microsecond),
		URL:              BuildURL(s.cfg.ExternalURL, obj.StoredFilename),
	}
	if dims != nil {
		width, height := dims.Width, dims.Height
		record.Width, record.Height = &width, &height
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		s.log.Error().
			Err(err).
			Str("request_id", platformerrors.RequestIDFromContext(ctx)).
			Str("stored_filename", obj.StoredFilename).
			Str("storage", s.storage.Name()).
			Msg("orphaned file: image stored without metadata record")
		return nil, s.fail(ctx, span, &UploadError{
			Stage:        StagePersist,
			Reason:       "could not save image metadata",
			OrphanedFile: obj.StoredFilename,
			Err:          err,
		})
	}
	span.AddEvent("persisted")

	s.log.Info().
		Str("request_id", platformerrors.RequestIDFromContext(ctx)).
		Str("id", record.ID).
		Str("original_filename", record.OriginalFilename).
		Str("stored_filename", record.StoredFilename).
		Int64("size", record.FileSize).
		Msg("image uploaded")
	return record, nil
}

// dimensions reuses the validation sniff when present. It never fails the upload.
func (s *Service) dimensions(verdict Verdict, data []byte) *Dimensions {
	if verdict.Sniff != nil {
		return verdict.Sniff.Dimensions()
	}
	result, err := s.sniffer.Sniff(data)
	if err != nil {
		return nil
	}
	return result.Dimensions()
}

func (s *Service) fail(ctx context.Context, span trace.Span, uploadErr *UploadError) error {
	span.SetAttributes(attribute.String("upload.stage", string(uploadErr.Stage)))
	span.SetStatus(codes.Error, uploadErr.Reason)
	if uploadErr.Err != nil {
		span.RecordError(uploadErr.Err)
	}

	event := s.log.Warn()
	if !uploadErr.ClientFault() {
		event = s.log.Error().Err(uploadErr.Err)
	}
	event.
		Str("request_id", platformerrors.RequestIDFromContext(ctx)).
		Str("stage", string(uploadErr.Stage)).
		Msg(uploadErr.Reason)
	return uploadErr
}

// Get returns one record or a NOT_FOUND platform error.
func (s *Service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the newest records first. limit <= 0 selects the default and
// larger values are capped at the configured maximum.
func (s *Service) List(ctx context.Context, limit int) ([]*Image, error) {
	if limit <= 0 {
		limit = s.cfg.ListDefaultLimit
	}
	if limit > s.cfg.ListMaxLimit {
		limit = s.cfg.ListMaxLimit
	}
	images, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []*Image{}
	}
	return images, nil
}

// Open streams a stored file by its stored filename. Only <id><allowed ext>
// names are served; anything else is NOT_FOUND without touching storage.
func (s *Service) Open(ctx context.Context, storedFilename string) (io.ReadCloser, string, error) {
	_, ext, ok := imageid.SplitStoredFilename(storedFilename)
	if !ok || !s.validator.ExtensionAllowed(ext) {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"Image not found", nil, "0b7f4c1e-5a9d-4f3e-8c21-6d2e9a7b4f10")
	}
	reader, err := s.storage.Open(ctx, storedFilename)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"Image not found", err, "4c9a2d71-3e8b-4f05-a6d2-8b1e7c3f9a24")
		}
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage,
			"Failed to read image", err, "e61d8b3a-2f4c-4a97-b5e0-9c7d1a6f3b82")
	}
	contentType, ok := GuessMimeType(ext)
	if !ok {
		contentType = "application/octet-stream"
	}
	return reader, contentType, nil
}

// FindOrphans lists stored objects that have no metadata record.
func (s *Service) FindOrphans(ctx context.Context) ([]string, error) {
	var stored, recorded []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keys, err := s.storage.List(gctx)
		if err != nil {
			return fmt.Errorf("list storage: %w", err)
		}
		stored = keys
		return nil
	})
	g.Go(func() error {
		names, err := s.repo.ListStoredFilenames(gctx)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		recorded = names
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(recorded))
	for _, name := range recorded {
		known[name] = struct{}{}
	}
	orphans := make([]string, 0)
	for _, key := range stored {
		if _, ok := known[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

// Ready checks both the metadata store and the object storage.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("metadata store: %w", err)
	}
	if err := s.storage.Health(ctx); err != nil {
		return fmt.Errorf("storage %s: %w", s.storage.Name(), err)
	}
	return nil
}
