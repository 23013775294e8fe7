package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamtodo/internal/handler"
	"teamtodo/internal/middleware"
	"teamtodo/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	pref := args.Get(0)
	if pref == nil {
		return nil, args.Error(1)
	}
	return pref.(*model.NotificationPreference), args.Error(1)
}

func (m *MockUserRepository) SavePreferences(ctx context.Context, pref *model.NotificationPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

const testJWTSecret = "test-secret"

func setupTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockUserRepository)
	userHandler := handler.NewUserHandler(mockRepo, testJWTSecret, 24)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.PUT("/admin/users/:id/role", userHandler.UpdateRole)

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	authorized.GET("/me", userHandler.Me)

	return r, mockRepo
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, reqBody.Name, response.User.Name)
	assert.Equal(t, reqBody.Email, response.User.Email)
	assert.Equal(t, model.RoleTeamMember, response.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	existingUser := &model.User{
		ID:             uuid.New(),
		Email:          "existing@example.com",
		HashedPassword: "hashed_password",
		Name:           "Existing User",
		Role:           model.RoleTeamMember,
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existingUser, nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegister_InvalidInput(t *testing.T) {
	// Arrange
	router, _ := setupTest()

	// Password below the minimum length
	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
		Name:           "Test User",
		Role:           model.RoleTeamLeader,
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, model.RoleTeamLeader, response.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
		Name:           "Test User",
		Role:           model.RoleTeamMember,
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestLogin_InactiveAccount(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
		Name:           "Deactivated User",
		Role:           model.RoleTeamMember,
		IsActive:       false,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestLogin_TokenAcceptedByMiddleware(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
		Name:           "Test User",
		Role:           model.RoleTeamMember,
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
	mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	loginReq, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	loginReq.Header.Set("Content-Type", "application/json")

	loginResp := httptest.NewRecorder()
	router.ServeHTTP(loginResp, loginReq)
	assert.Equal(t, http.StatusOK, loginResp.Code)

	var authResp handler.AuthResponse
	assert.NoError(t, json.Unmarshal(loginResp.Body.Bytes(), &authResp))

	// Act: the freshly issued token must get through the auth middleware,
	// since signing and verification share the configured secret.
	meReq, _ := http.NewRequest("GET", "/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+authResp.Token)

	meResp := httptest.NewRecorder()
	router.ServeHTTP(meResp, meReq)

	// Assert
	assert.Equal(t, http.StatusOK, meResp.Code)

	var meBody handler.UserResponse
	assert.NoError(t, json.Unmarshal(meResp.Body.Bytes(), &meBody))
	assert.Equal(t, user.ID.String(), meBody.ID)

	mockRepo.AssertExpectations(t)
}

func TestUpdateRole_UnknownRole(t *testing.T) {
	// Arrange
	router, _ := setupTest()

	reqBody := handler.UpdateRoleRequest{Role: "superuser"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("PUT", "/admin/users/"+uuid.New().String()+"/role", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: rejected before the repository is touched
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "invalid role", response["error"])
}

func TestLogin_UnknownUser(t *testing.T) {
	// Arrange
	router, mockRepo := setupTest()

	mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	reqBody := handler.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockRepo.AssertExpectations(t)
}
