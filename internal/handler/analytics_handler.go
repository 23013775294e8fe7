package handler

import (
	"net/http"
	"strconv"

	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	users     repository.UserRepositoryInterface
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, users repository.UserRepositoryInterface) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, users: users}
}

// TeamStats returns the team dashboard aggregates
// @Summary      Team analytics
// @Tags         Analytics
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        days query int false "Trend window in days (default 30)"
// @Success      200 {object} service.TeamOverview
// @Failure      403 {object} map[string]string
// @Router       /teams/{id}/analytics [get]
func (h *AnalyticsHandler) TeamStats(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	overview, err := h.analytics.TeamStats(c.Request.Context(), actor, teamID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// MyStats returns the caller's personal productivity summary
// @Summary      Personal analytics
// @Tags         Analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} service.PersonalStats
// @Router       /me/stats [get]
func (h *AnalyticsHandler) MyStats(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	stats, err := h.analytics.MyStats(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
