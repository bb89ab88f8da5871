package handlers

import (
	"net/http"

	"askchart/tabular"

	"github.com/gin-gonic/gin"
)

// TabDataHandler loads a dataset and returns its default charts
// @Summary      Load tab data
// @Description  (Re)load a dataset from upstream (or sample data) into the cache and build its default charts
// @Tags         Datasets
// @Produce      json
// @Param        tab_id  path      string  true  "Dataset ID, e.g. tab1"
// @Success      200     {object}  models.TabDataResponse
// @Failure      404     {object}  map[string]string  "Unknown dataset"
// @Failure      500     {object}  map[string]string  "Data unavailable"
// @Router       /api/tabs/{tab_id}/data [get]
func (h *Handlers) TabDataHandler(c *gin.Context) {
	resp, err := h.pipeline.LoadDataset(c.Request.Context(), c.Param("tab_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TabSchemaHandler describes a dataset's columns
// @Summary      Describe tab schema
// @Tags         Datasets
// @Produce      json
// @Param        tab_id  path      string  true  "Dataset ID, e.g. tab1"
// @Success      200     {object}  object  "{ \"success\": true, \"table\": \"tab1_data\", \"columns\": [] }"
// @Failure      404     {object}  map[string]string  "Unknown dataset"
// @Router       /api/tabs/{tab_id}/schema [get]
func (h *Handlers) TabSchemaHandler(c *gin.Context) {
	tabID := c.Param("tab_id")
	columns, err := h.pipeline.Schema(c.Request.Context(), tabID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"table":   tabular.TableName(tabID),
		"columns": columns,
	})
}
