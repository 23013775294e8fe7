package handler

import (
	"net/http"
	"strings"
	"time"

	"teamtodo/internal/auth"
	"teamtodo/internal/model"
	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo           repository.UserRepositoryInterface
	jwtSecret      string
	jwtExpiryHours int
}

func NewUserHandler(repo repository.UserRepositoryInterface, jwtSecret string, jwtExpiryHours int) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: jwtSecret, jwtExpiryHours: jwtExpiryHours}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// Register creates a new account with the team_member role
// @Summary      Register a new user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        input body RegisterRequest true "Registration data"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hash),
		Role:           model.RoleTeamMember,
		IsActive:       true,
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID.String(), h.jwtExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(user)})
}

// Login authenticates a user and returns a JWT
// @Summary      Log in
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Credentials"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} map[string]string
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	user, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID.String(), h.jwtExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} UserResponse
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := currentUser(c, h.repo)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns all users. Admin only, enforced by route middleware.
// @Summary      List users
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} UserResponse
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, response)
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole changes a user's role. Admin only, enforced by route
// middleware.
// @Summary      Change a user's role
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        input body UpdateRoleRequest true "New role"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	switch req.Role {
	case model.RoleAdmin, model.RoleTeamLeader, model.RoleTeamMember:
	default:
		respondError(c, service.ErrInvalidRole)
		return
	}

	if err := h.repo.UpdateRole(c.Request.Context(), userID, req.Role); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": userID.String(), "role": req.Role})
}

type PreferencesResponse struct {
	EmailNotifications  bool      `json:"email_notifications"`
	TaskAssigned        bool      `json:"task_assigned"`
	StatusChanged       bool      `json:"status_changed"`
	CommentAdded        bool      `json:"comment_added"`
	DeadlineApproaching bool      `json:"deadline_approaching"`
	TaskOverdue         bool      `json:"task_overdue"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GetPreferences returns the user's notification preferences
// @Summary      Notification preferences
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} PreferencesResponse
// @Router       /me/preferences [get]
func (h *UserHandler) GetPreferences(c *gin.Context) {
	user, ok := currentUser(c, h.repo)
	if !ok {
		return
	}

	pref, err := h.repo.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, PreferencesResponse{
		EmailNotifications:  pref.EmailNotifications,
		TaskAssigned:        pref.TaskAssigned,
		StatusChanged:       pref.StatusChanged,
		CommentAdded:        pref.CommentAdded,
		DeadlineApproaching: pref.DeadlineApproaching,
		TaskOverdue:         pref.TaskOverdue,
		UpdatedAt:           pref.UpdatedAt,
	})
}

type UpdatePreferencesRequest struct {
	EmailNotifications  *bool `json:"email_notifications"`
	TaskAssigned        *bool `json:"task_assigned"`
	StatusChanged       *bool `json:"status_changed"`
	CommentAdded        *bool `json:"comment_added"`
	DeadlineApproaching *bool `json:"deadline_approaching"`
	TaskOverdue         *bool `json:"task_overdue"`
}

// UpdatePreferences partially updates the user's notification preferences.
// Omitted fields keep their current value.
// @Summary      Update notification preferences
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body UpdatePreferencesRequest true "Preference toggles"
// @Success      200 {object} PreferencesResponse
// @Router       /me/preferences [put]
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	user, ok := currentUser(c, h.repo)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	pref, err := h.repo.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}
	if pref.ID == uuid.Nil {
		pref.ID = uuid.New()
	}

	if req.EmailNotifications != nil {
		pref.EmailNotifications = *req.EmailNotifications
	}
	if req.TaskAssigned != nil {
		pref.TaskAssigned = *req.TaskAssigned
	}
	if req.StatusChanged != nil {
		pref.StatusChanged = *req.StatusChanged
	}
	if req.CommentAdded != nil {
		pref.CommentAdded = *req.CommentAdded
	}
	if req.DeadlineApproaching != nil {
		pref.DeadlineApproaching = *req.DeadlineApproaching
	}
	if req.TaskOverdue != nil {
		pref.TaskOverdue = *req.TaskOverdue
	}

	if err := h.repo.SavePreferences(c.Request.Context(), pref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, PreferencesResponse{
		EmailNotifications:  pref.EmailNotifications,
		TaskAssigned:        pref.TaskAssigned,
		StatusChanged:       pref.StatusChanged,
		CommentAdded:        pref.CommentAdded,
		DeadlineApproaching: pref.DeadlineApproaching,
		TaskOverdue:         pref.TaskOverdue,
		UpdatedAt:           pref.UpdatedAt,
	})
}
