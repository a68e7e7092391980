package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/image-storage-api/internal/config"
	"github.com/janhq/image-storage-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/image-storage-api/internal/interfaces/httpserver/responses"
)

// Routes encapsulates route registration.
type Routes struct {
	cfg      *config.Config
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider, cfg *config.Config) *Routes {
	return &Routes{cfg: cfg, handlers: provider}
}

// Register attaches the public API at the root path.
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/health", r.handlers.Health.Health)
	router.GET("/images", r.handlers.Image.List)
	if r.cfg.ServeFiles {
		router.GET("/images/:filename", r.handlers.Image.Serve)
	}
	router.GET("/image/:id", r.handlers.Image.Get)
	router.POST("/upload", r.handlers.Image.Upload)
}

// NotFound answers unmatched paths. POSTs anywhere but /upload are an invalid endpoint.
func NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		responses.Error(c, http.StatusNotFound, "Invalid endpoint")
		return
	}
	responses.Error(c, http.StatusNotFound, "Endpoint not found")
}
