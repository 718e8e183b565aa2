package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
	"clinic-app-server/internal/utils"
)

// DashboardHandler serves the role-specific summary views.
type DashboardHandler struct {
	Dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard}
}

// Get handles GET /dashboard, dispatching on the caller's role.
func (h *DashboardHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	switch user.Role {
	case models.RoleAdmin:
		dashboard, err := h.Dashboard.ForAdmin(ctx)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.Success(c, "Dashboard fetched successfully", dashboard)
	case models.RoleDoctor:
		dashboard, err := h.Dashboard.ForDoctor(ctx, user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.Success(c, "Dashboard fetched successfully", dashboard)
	default:
		dashboard, err := h.Dashboard.ForPatient(ctx, user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.Success(c, "Dashboard fetched successfully", dashboard)
	}
}
