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

func TestTeamService_Create_DeniedForMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewTeamService(gormDB)

	member := &model.User{ID: uuid.New(), Role: model.RoleTeamMember, IsActive: true}

	// Act: rejected before any query runs
	team, err := svc.Create(context.Background(), member, "Platform", "", member.ID)

	// Assert
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.Nil(t, team)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_LeaderMustLeadOwnTeam(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewTeamService(gormDB)

	leader := &model.User{ID: uuid.New(), Role: model.RoleTeamLeader, IsActive: true}

	// Act: a team leader cannot nominate someone else
	team, err := svc.Create(context.Background(), leader, "Platform", "", uuid.New())

	// Assert
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	assert.Nil(t, team)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_RemoveMember_LeaderCannotBeRemoved(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewTeamService(gormDB)

	teamID := uuid.New()
	leaderID := uuid.New()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	mock.ExpectQuery(`SELECT .* FROM "teams" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "leader_id", "is_active"}).
			AddRow(teamID.String(), "Platform", leaderID.String(), true))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "is_active"}).
			AddRow(leaderID.String(), "lead@example.com", "Lead", model.RoleTeamLeader, true))

	// Act
	err := svc.RemoveMember(context.Background(), admin, teamID, leaderID)

	// Assert
	assert.ErrorIs(t, err, service.ErrLeaderCannotLeave)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Leave_LeaderCannotLeave(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	svc := service.NewTeamService(gormDB)

	teamID := uuid.New()
	leader := &model.User{ID: uuid.New(), Role: model.RoleTeamLeader, IsActive: true}

	mock.ExpectQuery(`SELECT .* FROM "teams" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "leader_id", "is_active"}).
			AddRow(teamID.String(), "Platform", leader.ID.String(), true))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "is_active"}).
			AddRow(leader.ID.String(), "lead@example.com", "Lead", model.RoleTeamLeader, true))

	// Act
	err := svc.Leave(context.Background(), leader, teamID)

	// Assert
	assert.ErrorIs(t, err, service.ErrLeaderCannotLeave)
	assert.NoError(t, mock.ExpectationsWereMet())
}
