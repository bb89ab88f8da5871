package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"askchart/models"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// UserInfoHandler returns a user's metadata, creating the user on first use
// @Summary      Get user info
// @Tags         Users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  object  "{ \"success\": true, \"user\": UserInfo }"
// @Failure      400       {object}  map[string]string  "Invalid username"
// @Router       /api/users/{username}/info [get]
func (h *Handlers) UserInfoHandler(c *gin.Context) {
	user, err := h.docs.GetOrCreateUser(c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// HistoryHandler lists a user's recent questions
// @Summary      List query history
// @Tags         Users
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        limit     query     int     false  "Maximum entries (default 50)"
// @Success      200       {object}  object  "{ \"success\": true, \"history\": HistorySummary[] }"
// @Failure      400       {object}  map[string]string  "Invalid request"
// @Router       /api/users/{username}/history [get]
func (h *Handlers) HistoryHandler(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondError(c, fmt.Errorf("limit must be a positive integer: %w", models.ErrInvalidRequest))
			return
		}
		limit = n
	}

	history, err := h.docs.ListHistory(c.Param("username"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

// HistoryDetailHandler returns one recorded question with its full response
// @Summary      Get query history entry
// @Tags         Users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        query_id  path      string  true  "Query ID"
// @Success      200       {object}  object  "{ \"success\": true, \"query\": HistoryEntry }"
// @Failure      404       {object}  map[string]string  "Query not found"
// @Router       /api/users/{username}/history/{query_id} [get]
func (h *Handlers) HistoryDetailHandler(c *gin.Context) {
	entry, err := h.docs.GetHistory(c.Param("username"), c.Param("query_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "query": entry})
}

// QueryHandler answers a natural-language question about a dataset
// @Summary      Ask a question
// @Description  Classify the question, run the derived read-only query against the cached dataset and return a chart, or a plain answer. The question is recorded in the user's history.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        username  path      string               true  "Username"
// @Param        request   body      models.QueryRequest  true  "Question and dataset"
// @Success      200       {object}  models.QueryResponse
// @Failure      400       {object}  map[string]string  "Invalid request or forbidden SQL"
// @Failure      404       {object}  map[string]string  "Unknown dataset"
// @Failure      500       {object}  map[string]string  "Query failed"
// @Router       /api/users/{username}/llm/query [post]
func (h *Handlers) QueryHandler(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resp, err := h.pipeline.Ask(c.Request.Context(), c.Param("username"), req.TabID, req.Question)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
