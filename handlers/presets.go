package handlers

import (
	"net/http"

	"askchart/models"

	"github.com/gin-gonic/gin"
)

// ListPresetsHandler lists a user's presets
// @Summary      List presets
// @Tags         Presets
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        tab_id    query     string  false  "Only presets for this dataset"
// @Success      200       {object}  object  "{ \"success\": true, \"presets\": PresetSummary[] }"
// @Router       /api/users/{username}/presets [get]
func (h *Handlers) ListPresetsHandler(c *gin.Context) {
	presets, err := h.docs.ListPresets(c.Param("username"), c.Query("tab_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "presets": presets})
}

// CreatePresetHandler saves a new dashboard layout
// @Summary      Create preset
// @Tags         Presets
// @Accept       json
// @Produce      json
// @Param        username  path      string               true  "Username"
// @Param        request   body      models.PresetCreate  true  "Preset"
// @Success      201       {object}  object  "{ \"success\": true, \"preset_id\": \"...\" }"
// @Failure      400       {object}  map[string]string  "Invalid preset"
// @Router       /api/users/{username}/presets [post]
func (h *Handlers) CreatePresetHandler(c *gin.Context) {
	var req models.PresetCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	preset, err := h.docs.CreatePreset(c.Param("username"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"preset_id": preset.ID,
		"message":   "Preset saved",
	})
}

// GetPresetHandler returns a preset with every chart resolved
// @Summary      Load preset
// @Description  Load a preset and resolve each slot into a renderable chart. Slots whose query reference cannot be loaded are left out.
// @Tags         Presets
// @Produce      json
// @Param        username   path      string  true  "Username"
// @Param        preset_id  path      string  true  "Preset ID"
// @Success      200        {object}  models.ResolvedPreset
// @Failure      404        {object}  map[string]string  "Preset not found"
// @Router       /api/users/{username}/presets/{preset_id} [get]
func (h *Handlers) GetPresetHandler(c *gin.Context) {
	resolved, err := h.presets.Resolve(c.Param("username"), c.Param("preset_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

// UpdatePresetHandler changes the given fields of a preset
// @Summary      Update preset
// @Tags         Presets
// @Accept       json
// @Produce      json
// @Param        username   path      string               true  "Username"
// @Param        preset_id  path      string               true  "Preset ID"
// @Param        request    body      models.PresetUpdate  true  "Fields to change"
// @Success      200        {object}  map[string]interface{}
// @Failure      400        {object}  map[string]string  "Invalid preset"
// @Failure      404        {object}  map[string]string  "Preset not found"
// @Router       /api/users/{username}/presets/{preset_id} [put]
func (h *Handlers) UpdatePresetHandler(c *gin.Context) {
	var req models.PresetUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.docs.UpdatePreset(c.Param("username"), c.Param("preset_id"), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Preset updated"})
}

// DeletePresetHandler removes a preset
// @Summary      Delete preset
// @Tags         Presets
// @Param        username   path      string  true  "Username"
// @Param        preset_id  path      string  true  "Preset ID"
// @Success      200        {object}  map[string]interface{}
// @Failure      404        {object}  map[string]string  "Preset not found"
// @Router       /api/users/{username}/presets/{preset_id} [delete]
func (h *Handlers) DeletePresetHandler(c *gin.Context) {
	if err := h.docs.DeletePreset(c.Param("username"), c.Param("preset_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Preset deleted"})
}
