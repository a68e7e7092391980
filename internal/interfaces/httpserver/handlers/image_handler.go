package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/metrics"
	"github.com/janhq/image-storage-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/image-storage-api/utils/imageid"
	"github.com/janhq/image-storage-api/utils/platformerrors"
)

// ImageHandler exposes upload and metadata endpoints.
type ImageHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewImageHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "image-handler").Logger(),
	}
}

// UploadResponse is returned for a stored image.
type UploadResponse struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message"`
	ID               string             `json:"id"`
	Filename         string             `json:"filename"`
	URL              string             `json:"url"`
	OriginalFilename string             `json:"original_filename"`
	Size             int64              `json:"size"`
	Dimensions       *domain.Dimensions `json:"dimensions"`
}

// ImageResponse wraps one metadata record.
type ImageResponse struct {
	Success bool          `json:"success"`
	Image   *domain.Image `json:"image"`
}

// ImageListResponse wraps the newest records.
type ImageListResponse struct {
	Success bool            `json:"success"`
	Images  []*domain.Image `json:"images"`
}

// Upload godoc
// @Summary      Upload an image
// @Description  Accepts one file in a multipart/form-data body. The first part carrying a filename is stored.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file"
// @Success      201   {object}  UploadResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /upload [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	mediaType, params, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		h.reject(c, "Content-Type must be multipart/form-data")
		return
	}
	boundary := params["boundary"]
	if boundary == "" {
		h.reject(c, "Content-Type must declare a multipart boundary")
		return
	}

	limit := h.cfg.MaxRequestBytes()
	if c.Request.ContentLength > limit {
		h.reject(c, h.sizeMessage())
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(c, h.sizeMessage())
			return
		}
		h.reject(c, "Failed to read request body")
		return
	}

	img, err := h.service.Upload(c.Request.Context(), domain.UploadRequest{Body: body, Boundary: boundary})
	if err != nil {
		h.uploadFailed(c, err)
		return
	}

	metrics.RecordUpload("completed", "success", img.MimeType, img.FileSize)
	c.JSON(http.StatusCreated, UploadResponse{
		Success:          true,
		Message:          "Image uploaded successfully",
		ID:               img.ID,
		Filename:         img.StoredFilename,
		URL:              img.URL,
		OriginalFilename: img.OriginalFilename,
		Size:             img.FileSize,
		Dimensions:       img.Dimensions(),
	})
}

func (h *ImageHandler) reject(c *gin.Context, message string) {
	metrics.RecordUpload("receive", "error", "", 0)
	responses.Error(c, http.StatusBadRequest, message)
}

func (h *ImageHandler) sizeMessage() string {
	return fmt.Sprintf("File size exceeds %.1f MB limit", float64(h.cfg.MaxFileSize)/(1024*1024))
}

// logError logs typed failures with their code, layer and request id.
func (h *ImageHandler) logError(err error, msg string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.LogError(h.log, platformErr)
		return
	}
	h.log.Error().Err(err).Msg(msg)
}

func (h *ImageHandler) uploadFailed(c *gin.Context, err error) {
	var uploadErr *domain.UploadError
	if !errors.As(err, &uploadErr) {
		h.logError(err, "upload failed")
		responses.Error(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	metrics.RecordUpload(string(uploadErr.Stage), "error", "", 0)
	if uploadErr.OrphanedFile != "" {
		metrics.RecordOrphanedFile()
	}
	if !uploadErr.ClientFault() {
		h.logError(uploadErr, "upload failed")
	}

	status := platformerrors.ErrorTypeToHTTPStatus(uploadErr.ErrorType())
	if uploadErr.ClientFault() {
		responses.Error(c, status, uploadErr.Reason)
		return
	}
	responses.Error(c, status, "Upload failed: "+uploadErr.Reason)
}

// List godoc
// @Summary      List images
// @Description  Returns metadata records, newest upload first.
// @Tags         images
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of records (default 100)"
// @Success      200    {object}  ImageListResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /images [get]
func (h *ImageHandler) List(c *gin.Context) {
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			responses.Error(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	images, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.logError(err, "list images failed")
		responses.HandleError(c, err, "Internal server error: failed to list images")
		return
	}
	c.JSON(http.StatusOK, ImageListResponse{Success: true, Images: images})
}

// Get godoc
// @Summary      Get image metadata
// @Tags         images
// @Produce      json
// @Param        id   path      string  true  "Image ID"
// @Success      200  {object}  ImageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /image/{id} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !imageid.IsValid(id) {
		responses.Error(c, http.StatusNotFound, "Image not found")
		return
	}

	img, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			responses.Error(c, http.StatusNotFound, "Image not found")
			return
		}
		h.logError(err, "get image failed")
		responses.HandleError(c, err, "Internal server error: failed to load image")
		return
	}
	c.JSON(http.StatusOK, ImageResponse{Success: true, Image: img})
}

// Serve godoc
// @Summary      Download a stored image
// @Tags         images
// @Produce      image/png,image/jpeg,image/gif
// @Param        filename  path  string  true  "Stored filename"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /images/{filename} [get]
func (h *ImageHandler) Serve(c *gin.Context) {
	reader, contentType, err := h.service.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			responses.Error(c, http.StatusNotFound, "Image not found")
			return
		}
		h.logError(err, "serve image failed")
		responses.HandleError(c, err, "Internal server error: failed to read image")
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, reader, map[string]string{
		"Cache-Control":          "public, max-age=31536000, immutable",
		"X-Content-Type-Options": "nosniff",
	})
}
