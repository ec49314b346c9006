package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type StudioHandler struct {
	db *gorm.DB
}

func NewStudioHandler(db *gorm.DB) *StudioHandler {
	return &StudioHandler{db: db}
}

type UpdateStudioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Timezone    *string `json:"timezone"`
	IsActive    *bool   `json:"is_active"`
}

func (h *StudioHandler) load(c *gin.Context) (*models.Studio, bool) {
	var studio models.Studio
	if err := h.db.WithContext(c.Request.Context()).First(&studio, middleware.StudioID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "studio_not_found", "studio not found")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_studio", "could not load studio")
		return nil, false
	}
	return &studio, true
}

func (h *StudioHandler) GetMeStudio(c *gin.Context) {
	studio, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, studio)
}

// UpdateMeStudio edits the studio profile. A timezone change only affects
// occurrences generated afterwards; existing slots keep their instants.
func (h *StudioHandler) UpdateMeStudio(c *gin.Context) {
	studio, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "name must not be empty")
			return
		}
		studio.Name = name
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "timezone is not a known IANA zone")
			return
		}
		studio.Timezone = *req.Timezone
	}
	if req.Description != nil {
		studio.Description = *req.Description
	}
	if req.Phone != nil {
		studio.Phone = *req.Phone
	}
	if req.Address != nil {
		studio.Address = *req.Address
	}
	if req.IsActive != nil {
		studio.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(studio).Error; err != nil {
		httperr.Internal(c, "failed_to_update_studio", "could not save studio")
		return
	}

	c.JSON(http.StatusOK, studio)
}
