package handlers

import (
	"net/http"
	"time"

	"askchart/config"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Report service status, the document store backend and upstream database connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":     "healthy",
		"store":      h.storeBackend,
		"sql_server": "not_configured",
		"timestamp":  time.Now().Format(time.RFC3339),
	}

	if h.upstream != nil {
		status["sql_server"] = "disconnected"
		if h.upstream.IsConnected() {
			status["sql_server"] = "connected"
		}
	}

	c.JSON(http.StatusOK, status)
}

type datasetInfo struct {
	ID     string `json:"id"`
	Loaded bool   `json:"loaded"`
	Charts int    `json:"default_charts"`
}

// ListDatasetsHandler lists the dataset catalog
// @Summary      List datasets
// @Description  List the known datasets (tabs) and whether each is loaded in the cache
// @Tags         Datasets
// @Produce      json
// @Success      200  {object}  object  "{ \"success\": true, \"datasets\": [] }"
// @Router       /api/datasets [get]
func (h *Handlers) ListDatasetsHandler(c *gin.Context) {
	loaded := h.pipeline.Loaded(c.Request.Context())

	datasets := []datasetInfo{}
	for _, d := range config.Datasets() {
		datasets = append(datasets, datasetInfo{ID: d.ID, Loaded: loaded[d.ID], Charts: len(d.Charts)})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "datasets": datasets})
}
