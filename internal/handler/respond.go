package handler

import (
	"errors"
	"net/http"

	"teamtodo/internal/middleware"
	"teamtodo/internal/model"
	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps domain errors onto HTTP statuses: permission failures
// are 403, missing entities 404, validation failures 400, everything else
// an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, repository.ErrTeamNotFound),
		errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrNotATeamMember),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrLeaderCannotLeave):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser resolves the authenticated user from the context set by the
// JWT middleware. It writes the error response itself and returns false
// when the caller should bail out.
func currentUser(c *gin.Context, users repository.UserRepositoryInterface) (*model.User, bool) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	if user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
		return nil, false
	}
	return user, true
}

// pathUUID parses a UUID path parameter, responding 400 on garbage.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
