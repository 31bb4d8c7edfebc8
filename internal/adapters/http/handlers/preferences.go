package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Infernape3000/Tenacio/internal/adapters/http/dto"
	"github.com/Infernape3000/Tenacio/internal/app"
	"github.com/Infernape3000/Tenacio/internal/domain"
)

// PreferencesHandler handles the preferences endpoints.
type PreferencesHandler struct {
	prefs *app.PreferencesStore
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(prefs *app.PreferencesStore) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// PreferencesPayload is both the request and response body for preferences.
type PreferencesPayload struct {
	Role         string `json:"role"`
	ConsentGiven bool   `json:"consentGiven"`
}

// RolesResponse lists the selectable roles.
type RolesResponse struct {
	Roles []string `json:"roles"`
}

// Get handles GET /api/v1/preferences.
//
// @Summary Get the persisted preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} PreferencesPayload
// @Router /api/v1/preferences [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreferencesPayload{
		Role:         prefs.Role,
		ConsentGiven: prefs.ConsentGiven,
	})
}

// Put handles PUT /api/v1/preferences.
//
// @Summary Replace the persisted preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Success 200 {object} PreferencesPayload
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/preferences [put]
func (h *PreferencesHandler) Put(c *gin.Context) {
	var payload PreferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		dto.HandleError(c, domain.NewValidationError("", "malformed preferences payload"))
		return
	}

	prefs := domain.Preferences{
		Role:         payload.Role,
		ConsentGiven: payload.ConsentGiven,
	}

	if err := h.prefs.Set(c.Request.Context(), prefs); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// ListRoles handles GET /api/v1/preferences/roles.
//
// @Summary List the selectable roles
// @Tags preferences
// @Produce json
// @Success 200 {object} RolesResponse
// @Router /api/v1/preferences/roles [get]
func (h *PreferencesHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, RolesResponse{Roles: domain.Roles})
}

// RegisterPreferencesRoutes registers preferences routes on the given group.
func (h *PreferencesHandler) RegisterPreferencesRoutes(rg *gin.RouterGroup) {
	prefs := rg.Group("/preferences")
	prefs.GET("", h.Get)
	prefs.PUT("", h.Put)
	prefs.GET("/roles", h.ListRoles)
}
