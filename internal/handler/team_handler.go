package handler

import (
	"net/http"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TeamHandler struct {
	teams *service.TeamService
	users repository.UserRepositoryInterface
}

func NewTeamHandler(teams *service.TeamService, users repository.UserRepositoryInterface) *TeamHandler {
	return &TeamHandler{teams: teams, users: users}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Description string `json:"description"`
	LeaderID    string `json:"leader_id"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeaderID    string    `json:"leader_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func toTeamResponse(t *model.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		LeaderID:    t.LeaderID.String(),
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

// Create creates a new team
// @Summary      Create a team
// @Tags         Teams
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body CreateTeamRequest true "Team data"
// @Success      201 {object} TeamResponse
// @Failure      403 {object} map[string]string
// @Router       /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Without an explicit leader the creator leads the team.
	leaderID := actor.ID
	if req.LeaderID != "" {
		parsed, err := uuid.Parse(req.LeaderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leader_id"})
			return
		}
		leaderID = parsed
	}

	team, err := h.teams.Create(c.Request.Context(), actor, req.Name, req.Description, leaderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTeamResponse(team))
}

// List returns the teams visible to the caller
// @Summary      List teams
// @Tags         Teams
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} TeamResponse
// @Router       /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	teams, err := h.teams.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TeamResponse, len(teams))
	for i := range teams {
		response[i] = toTeamResponse(&teams[i])
	}
	c.JSON(http.StatusOK, response)
}

// Get returns one team with its member list
// @Summary      Get a team
// @Tags         Teams
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	team, memberships, err := h.teams.Get(c.Request.Context(), actor, teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	members := make([]TeamMemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = TeamMemberResponse{
			UserID:   m.MemberID.String(),
			Name:     m.Member.Name,
			Email:    m.Member.Email,
			JoinedAt: m.JoinedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"team":    toTeamResponse(team),
		"members": members,
	})
}

// Update edits a team's name and description
// @Summary      Update a team
// @Tags         Teams
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        input body UpdateTeamRequest true "New values"
// @Success      200 {object} TeamResponse
// @Router       /teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	team, err := h.teams.Update(c.Request.Context(), actor, teamID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(team))
}

// Delete removes a team and everything under it
// @Summary      Delete a team
// @Tags         Teams
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Success      204
// @Router       /teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.Delete(c.Request.Context(), actor, teamID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember adds a user to the team
// @Summary      Add a team member
// @Tags         Teams
// @Security     BearerAuth
// @Accept       json
// @Param        id path string true "Team ID"
// @Param        input body AddMemberRequest true "User to add"
// @Success      204
// @Router       /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	if err := h.teams.AddMember(c.Request.Context(), actor, teamID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveMember removes a user from the team
// @Summary      Remove a team member
// @Tags         Teams
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Param        user_id path string true "User ID"
// @Success      204
// @Router       /teams/{id}/members/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.teams.RemoveMember(c.Request.Context(), actor, teamID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave removes the caller from the team
// @Summary      Leave a team
// @Tags         Teams
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Success      204
// @Router       /teams/{id}/leave [post]
func (h *TeamHandler) Leave(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.Leave(c.Request.Context(), actor, teamID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
