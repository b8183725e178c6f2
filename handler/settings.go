package handler

import (
	"net/http"

	"github.com/clausecloud/backend/model"
	"github.com/clausecloud/backend/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings *service.SettingsStore
}

func NewSettingsHandler(settings *service.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the current settings singleton
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": h.settings.Get(),
	})
}

// Update merges the submitted sections into the current settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var update model.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	settings := h.settings.Update(update)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// UpdateRedLines replaces the whole red-line array
func (h *SettingsHandler) UpdateRedLines(c *gin.Context) {
	var req struct {
		RedLines *[]model.RedLine `json:"redLines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RedLines == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Red lines must be an array"})
		return
	}

	redLines := h.settings.ReplaceRedLines(*req.RedLines)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Red lines updated successfully",
		"redLines": redLines,
	})
}
