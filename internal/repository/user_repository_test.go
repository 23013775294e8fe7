package repository_test

import (
	"context"
	"testing"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	user := &model.User{
		ID:             userID,
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
		Role:           model.RoleTeamMember,
		IsActive:       true,
	}

	// The user and the default notification preference row share one
	// transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectQuery(`INSERT INTO "notification_preferences"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	email := "test@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs(email, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role", "is_active"}).
			AddRow(userID.String(), email, "hashed_password", "Test User", model.RoleTeamMember, true))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, model.RoleTeamMember, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	email := "nonexistent@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs(email, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert: a missing user is (nil, nil), not an error
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Error(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	email := "test@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs(email, 1).
		WillReturnError(assert.AnError)

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := userRepo.UpdateRole(context.Background(), userID, model.RoleTeamLeader)

	// Assert
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetPreferences_DefaultsWhenMissing(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "notification_preferences" WHERE user_id = .* LIMIT .*`).
		WithArgs(userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	pref, err := userRepo.GetPreferences(context.Background(), userID)

	// Assert: missing row falls back to everything enabled
	assert.NoError(t, err)
	assert.NotNil(t, pref)
	assert.True(t, pref.EmailNotifications)
	assert.True(t, pref.AllowsEmail(model.NotificationTaskOverdue))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetPreferences_RespectsStoredRow(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "notification_preferences" WHERE user_id = .* LIMIT .*`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "email_notifications", "task_assigned", "status_changed",
			"comment_added", "deadline_approaching", "task_overdue", "updated_at",
		}).AddRow(uuid.New().String(), userID.String(), true, true, false, true, true, true, time.Now()))

	// Act
	pref, err := userRepo.GetPreferences(context.Background(), userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pref)
	assert.False(t, pref.AllowsEmail(model.NotificationStatusChanged))
	assert.True(t, pref.AllowsEmail(model.NotificationTaskAssigned))
	assert.NoError(t, mock.ExpectationsWereMet())
}
