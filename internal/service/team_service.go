package service

import (
	"context"

	"teamtodo/internal/model"
	"teamtodo/internal/policy"
	"teamtodo/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamService owns team lifecycle and membership. The leader is stored on
// the team row, never as a membership row, so role checks stay one query.
type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// Create creates a team led by leaderID. Admins may nominate any leader;
// a team leader may only create teams they lead themselves.
func (s *TeamService) Create(ctx context.Context, actor *model.User, name, description string, leaderID uuid.UUID) (*model.Team, error) {
	if !policy.IsElevated(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if !actor.IsAdmin() && leaderID != actor.ID {
		return nil, ErrPermissionDenied
	}

	team := &model.Team{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		LeaderID:    leaderID,
		IsActive:    true,
	}
	if err := repository.NewTeamRepository(s.db).Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Update edits the team's name and description.
func (s *TeamService) Update(ctx context.Context, actor *model.User, teamID uuid.UUID, name, description string) (*model.Team, error) {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageTeam(actor, team) {
		return nil, ErrPermissionDenied
	}

	if name != "" {
		team.Name = name
	}
	team.Description = description
	if err := teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes the team; tasks, memberships, and dependent rows cascade.
func (s *TeamService) Delete(ctx context.Context, actor *model.User, teamID uuid.UUID) error {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !policy.CanManageTeam(actor, team) {
		return ErrPermissionDenied
	}
	return teams.Delete(ctx, teamID)
}

// AddMember adds a user to the team. Adding an existing member is a no-op.
func (s *TeamService) AddMember(ctx context.Context, actor *model.User, teamID, userID uuid.UUID) error {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !policy.CanManageTeam(actor, team) {
		return ErrPermissionDenied
	}
	if userID == team.LeaderID {
		// The leader is implicitly a member via the team row.
		return nil
	}

	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return ErrNotATeamMember
	}
	return teams.AddMember(ctx, teamID, userID)
}

// RemoveMember removes a user from the team. The leader cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, actor *model.User, teamID, userID uuid.UUID) error {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !policy.CanManageTeam(actor, team) {
		return ErrPermissionDenied
	}
	if userID == team.LeaderID {
		return ErrLeaderCannotLeave
	}
	return teams.RemoveMember(ctx, teamID, userID)
}

// Leave removes the acting user from the team. Leaders must transfer the
// team or delete it instead.
func (s *TeamService) Leave(ctx context.Context, actor *model.User, teamID uuid.UUID) error {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if actor.ID == team.LeaderID {
		return ErrLeaderCannotLeave
	}
	return teams.RemoveMember(ctx, teamID, actor.ID)
}

// Get returns the team with its members if the actor may view it.
func (s *TeamService) Get(ctx context.Context, actor *model.User, teamID uuid.UUID) (*model.Team, []model.TeamMembership, error) {
	teams := repository.NewTeamRepository(s.db)
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	isMember, err := teams.IsMember(ctx, teamID, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanViewTeam(actor, team, isMember) {
		return nil, nil, ErrPermissionDenied
	}
	members, err := teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// List returns every active team for admins, otherwise the teams the actor
// leads or belongs to.
func (s *TeamService) List(ctx context.Context, actor *model.User) ([]model.Team, error) {
	teams := repository.NewTeamRepository(s.db)
	if actor.IsAdmin() {
		return teams.ListAll(ctx)
	}
	return teams.ListForUser(ctx, actor.ID)
}
