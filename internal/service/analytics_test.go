package service_test

import (
	"context"
	"testing"

	"teamtodo/internal/model"
	"teamtodo/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func expectTeamLoad(mock sqlmock.Sqlmock, teamID, leaderID uuid.UUID) {
	mock.ExpectQuery(`SELECT .* FROM "teams" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "leader_id", "is_active"}).
			AddRow(teamID.String(), "Platform", leaderID.String(), true))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "is_active"}).
			AddRow(leaderID.String(), "lead@example.com", "Lead", model.RoleTeamLeader, true))
}

func TestAnalyticsService_TeamStats_EmptyTeamIsAllZeroes(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewAnalyticsService(gormDB)

	teamID := uuid.New()
	leaderID := uuid.New()
	leader := &model.User{ID: leaderID, Role: model.RoleTeamLeader, IsActive: true}

	expectTeamLoad(mock, teamID, leaderID)

	// Status and priority group-bys: no rows for an empty team.
	mock.ExpectQuery(`SELECT status AS kind, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count"}))
	mock.ExpectQuery(`SELECT priority AS kind, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT DATE\(updated_at\) AS date, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"date", "count"}))
	mock.ExpectQuery(`SELECT users\.id AS user_id, users\.name AS name`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "open_tasks", "completed"}))
	mock.ExpectQuery(`SELECT AVG\(EXTRACT\(EPOCH FROM \(updated_at - created_at\)\) / 3600\) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	// Act
	overview, err := svc.TeamStats(context.Background(), leader, teamID, 30)

	// Assert: zero-valued buckets, never an error
	assert.NoError(t, err)
	assert.Equal(t, 0, overview.TotalTasks)
	assert.Len(t, overview.StatusCounts, 4)
	assert.Equal(t, 0, overview.StatusCounts[model.StatusCompleted])
	assert.Len(t, overview.PriorityCounts, 3)
	assert.Equal(t, 0, overview.OverdueTasks)
	assert.Empty(t, overview.CompletionTrend)
	assert.Empty(t, overview.MemberLoads)
	assert.Zero(t, overview.AvgCompletionHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsService_TeamStats_DeniedForMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewAnalyticsService(gormDB)

	teamID := uuid.New()
	leaderID := uuid.New()
	member := &model.User{ID: uuid.New(), Role: model.RoleTeamMember, IsActive: true}

	expectTeamLoad(mock, teamID, leaderID)

	// Act
	overview, err := svc.TeamStats(context.Background(), member, teamID, 30)

	// Assert
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.Nil(t, overview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsService_TeamStats_FillsBuckets(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewAnalyticsService(gormDB)

	teamID := uuid.New()
	leaderID := uuid.New()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	expectTeamLoad(mock, teamID, leaderID)

	mock.ExpectQuery(`SELECT status AS kind, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count"}).
			AddRow(model.StatusInProgress, 3).
			AddRow(model.StatusCompleted, 2))
	mock.ExpectQuery(`SELECT priority AS kind, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count"}).
			AddRow(model.PriorityHigh, 5))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT DATE\(updated_at\) AS date, COUNT\(\*\) AS count FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"date", "count"}).
			AddRow("2026-08-30", 2))
	mock.ExpectQuery(`SELECT users\.id AS user_id, users\.name AS name`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "open_tasks", "completed"}).
			AddRow(uuid.New().String(), "Dev", 3, 2))
	mock.ExpectQuery(`SELECT AVG\(EXTRACT\(EPOCH FROM \(updated_at - created_at\)\) / 3600\) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(12.5))

	// Act
	overview, err := svc.TeamStats(context.Background(), admin, teamID, 30)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 5, overview.TotalTasks)
	assert.Equal(t, 3, overview.StatusCounts[model.StatusInProgress])
	assert.Equal(t, 0, overview.StatusCounts[model.StatusNotStarted])
	assert.Equal(t, 5, overview.PriorityCounts[model.PriorityHigh])
	assert.Equal(t, 1, overview.OverdueTasks)
	assert.Len(t, overview.CompletionTrend, 1)
	assert.Equal(t, 2, overview.CompletionTrend[0].Count)
	assert.Len(t, overview.MemberLoads, 1)
	assert.Equal(t, 3, overview.MemberLoads[0].OpenTasks)
	assert.InDelta(t, 12.5, overview.AvgCompletionHours, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
