package service

import (
	"context"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/policy"
	"teamtodo/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsService computes reporting aggregates. All aggregation happens in
// the database; empty ranges produce zero-valued buckets, never errors.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// TrendPoint is a per-day completion count.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MemberLoad is a member's open-task workload and completion tally.
type MemberLoad struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	OpenTasks int       `json:"open_tasks"`
	Completed int       `json:"completed"`
}

// TeamOverview is the team analytics dashboard payload.
type TeamOverview struct {
	TeamID             uuid.UUID      `json:"team_id"`
	TotalTasks         int            `json:"total_tasks"`
	StatusCounts       map[string]int `json:"status_counts"`
	PriorityCounts     map[string]int `json:"priority_counts"`
	OverdueTasks       int            `json:"overdue_tasks"`
	CompletionTrend    []TrendPoint   `json:"completion_trend"`
	MemberLoads        []MemberLoad   `json:"member_loads"`
	AvgCompletionHours float64        `json:"avg_completion_hours"`
}

type kindCount struct {
	Kind  string
	Count int
}

// TeamStats builds the dashboard for one team over the trailing trendDays
// days. Leader of the team or admin only.
func (s *AnalyticsService) TeamStats(ctx context.Context, actor *model.User, teamID uuid.UUID, trendDays int) (*TeamOverview, error) {
	team, err := repository.NewTeamRepository(s.db).GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewAnalytics(actor, team) {
		return nil, ErrPermissionDenied
	}
	if trendDays <= 0 {
		trendDays = 30
	}

	overview := &TeamOverview{
		TeamID: teamID,
		StatusCounts: map[string]int{
			model.StatusNotStarted: 0,
			model.StatusInProgress: 0,
			model.StatusReview:     0,
			model.StatusCompleted:  0,
		},
		PriorityCounts: map[string]int{
			model.PriorityLow:    0,
			model.PriorityMedium: 0,
			model.PriorityHigh:   0,
		},
		CompletionTrend: []TrendPoint{},
		MemberLoads:     []MemberLoad{},
	}
	db := s.db.WithContext(ctx)

	var statusRows []kindCount
	err = db.Model(&model.Task{}).
		Select("status AS kind, COUNT(*) AS count").
		Where("team_id = ?", teamID).
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		overview.StatusCounts[row.Kind] = row.Count
		overview.TotalTasks += row.Count
	}

	var priorityRows []kindCount
	err = db.Model(&model.Task{}).
		Select("priority AS kind, COUNT(*) AS count").
		Where("team_id = ?", teamID).
		Group("priority").
		Scan(&priorityRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		overview.PriorityCounts[row.Kind] = row.Count
	}

	var overdue int64
	err = db.Model(&model.Task{}).
		Where("team_id = ? AND status <> ? AND due_date IS NOT NULL AND due_date < ?",
			teamID, model.StatusCompleted, time.Now()).
		Count(&overdue).Error
	if err != nil {
		return nil, err
	}
	overview.OverdueTasks = int(overdue)

	since := time.Now().AddDate(0, 0, -trendDays)
	err = db.Model(&model.Task{}).
		Select("DATE(updated_at) AS date, COUNT(*) AS count").
		Where("team_id = ? AND status = ? AND updated_at >= ?", teamID, model.StatusCompleted, since).
		Group("DATE(updated_at)").
		Order("date").
		Scan(&overview.CompletionTrend).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.Task{}).
		Select(`users.id AS user_id, users.name AS name,
			COUNT(*) FILTER (WHERE tasks.status <> 'completed') AS open_tasks,
			COUNT(*) FILTER (WHERE tasks.status = 'completed') AS completed`).
		Joins("JOIN users ON users.id = tasks.assignee_id").
		Where("tasks.team_id = ?", teamID).
		Group("users.id, users.name").
		Order("open_tasks DESC").
		Scan(&overview.MemberLoads).Error
	if err != nil {
		return nil, err
	}

	// NULL when the team has no completed tasks yet.
	var avg *float64
	err = db.Model(&model.Task{}).
		Select("AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600)").
		Where("team_id = ? AND status = ?", teamID, model.StatusCompleted).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg != nil {
		overview.AvgCompletionHours = *avg
	}

	return overview, nil
}

// PersonalStats is a user's own productivity summary.
type PersonalStats struct {
	UserID             uuid.UUID    `json:"user_id"`
	OpenTasks          int          `json:"open_tasks"`
	CompletedThisWeek  int          `json:"completed_this_week"`
	CompletedThisMonth int          `json:"completed_this_month"`
	CompletionRate     float64      `json:"completion_rate"`
	CompletionTrend    []TrendPoint `json:"completion_trend"`
}

// MyStats builds the calling user's productivity summary. There is no role
// gate: users always see their own numbers.
func (s *AnalyticsService) MyStats(ctx context.Context, actor *model.User) (*PersonalStats, error) {
	stats := &PersonalStats{
		UserID:          actor.ID,
		CompletionTrend: []TrendPoint{},
	}
	db := s.db.WithContext(ctx)
	now := time.Now()

	var total, completed, open int64
	if err := db.Model(&model.Task{}).Where("assignee_id = ?", actor.ID).Count(&total).Error; err != nil {
		return nil, err
	}
	err := db.Model(&model.Task{}).
		Where("assignee_id = ? AND status = ?", actor.ID, model.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, err
	}
	open = total - completed
	stats.OpenTasks = int(open)
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total)
	}

	var week, month int64
	err = db.Model(&model.Task{}).
		Where("assignee_id = ? AND status = ? AND updated_at >= ?",
			actor.ID, model.StatusCompleted, now.AddDate(0, 0, -7)).
		Count(&week).Error
	if err != nil {
		return nil, err
	}
	stats.CompletedThisWeek = int(week)

	err = db.Model(&model.Task{}).
		Where("assignee_id = ? AND status = ? AND updated_at >= ?",
			actor.ID, model.StatusCompleted, now.AddDate(0, -1, 0)).
		Count(&month).Error
	if err != nil {
		return nil, err
	}
	stats.CompletedThisMonth = int(month)

	err = db.Model(&model.Task{}).
		Select("DATE(updated_at) AS date, COUNT(*) AS count").
		Where("assignee_id = ? AND status = ? AND updated_at >= ?",
			actor.ID, model.StatusCompleted, now.AddDate(0, 0, -30)).
		Group("DATE(updated_at)").
		Order("date").
		Scan(&stats.CompletionTrend).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
