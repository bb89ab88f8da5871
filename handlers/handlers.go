package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"askchart/db"
	"askchart/models"
	"askchart/service"

	"github.com/gin-gonic/gin"
)

// @title           AskChart API
// @version         1.0
// @description     Ask questions about tabular datasets in natural language and get Chart.js-ready answers, with per-user history and preset dashboards.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /

// @schemes   http https

// Upstream is the part of the upstream source the health check needs.
type Upstream interface {
	IsConnected() bool
}

type Handlers struct {
	pipeline     *service.Pipeline
	presets      *service.PresetResolver
	docs         db.Store
	upstream     Upstream
	storeBackend string
	log          *slog.Logger
}

// New creates the handlers. upstream may be nil when no upstream database
// is configured.
func New(pipeline *service.Pipeline, presets *service.PresetResolver, docs db.Store, upstream Upstream, storeBackend string, log *slog.Logger) *Handlers {
	return &Handlers{
		pipeline:     pipeline,
		presets:      presets,
		docs:         docs,
		upstream:     upstream,
		storeBackend: storeBackend,
		log:          log,
	}
}

// Register mounts every API route on r. The keyword completion stub is only
// mounted when stub is set.
func (h *Handlers) Register(r gin.IRouter, stub bool) {
	r.GET("/health", h.HealthHandler)
	r.GET("/api/datasets", h.ListDatasetsHandler)

	tabs := r.Group("/api/tabs/:tab_id")
	tabs.GET("/data", h.TabDataHandler)
	tabs.GET("/schema", h.TabSchemaHandler)

	users := r.Group("/api/users/:username")
	users.GET("/info", h.UserInfoHandler)
	users.GET("/history", h.HistoryHandler)
	users.GET("/history/:query_id", h.HistoryDetailHandler)
	users.POST("/llm/query", h.QueryHandler)
	users.GET("/presets", h.ListPresetsHandler)
	users.POST("/presets", h.CreatePresetHandler)
	users.GET("/presets/:preset_id", h.GetPresetHandler)
	users.PUT("/presets/:preset_id", h.UpdatePresetHandler)
	users.DELETE("/presets/:preset_id", h.DeletePresetHandler)

	if stub {
		r.POST("/v1/chat/completions", h.ChatCompletionsHandler)
		r.GET("/v1/models", h.ModelsHandler)
	}
}

// respondError maps domain errors to status codes.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbiddenOperation),
		errors.Is(err, models.ErrInvalidPreset),
		errors.Is(err, models.ErrInvalidRequest):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
