package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/policy"
	"teamtodo/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService implements the task lifecycle: creation, edits, the status
// machine, assignment, comments, and attachments. Every mutation runs in
// one transaction so the entity change, its activity row, and its
// notification rows commit together; emails go out only after commit.
type TaskService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewTaskService(db *gorm.DB, notifier *Notifier) *TaskService {
	return &TaskService{db: db, notifier: notifier}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
	Tags        string
}

func (s *TaskService) loadTaskTeam(ctx context.Context, taskID uuid.UUID) (*model.Task, *model.Team, error) {
	task, err := repository.NewTaskRepository(s.db).GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	team, err := repository.NewTeamRepository(s.db).GetByID(ctx, task.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return task, team, nil
}

// stakeholders returns the task's assignee and team leader, deduplicated,
// excluding the acting user.
func (s *TaskService) stakeholders(ctx context.Context, task *model.Task, team *model.Team, actorID uuid.UUID) ([]model.User, error) {
	seen := map[uuid.UUID]bool{actorID: true}
	var users []model.User

	if task.AssigneeID != nil && !seen[*task.AssigneeID] {
		assignee, err := repository.NewUserRepository(s.db).GetByID(ctx, *task.AssigneeID)
		if err != nil {
			return nil, err
		}
		if assignee != nil {
			users = append(users, *assignee)
			seen[assignee.ID] = true
		}
	}

	if !seen[team.LeaderID] {
		leader, err := repository.NewUserRepository(s.db).GetByID(ctx, team.LeaderID)
		if err != nil {
			return nil, err
		}
		if leader != nil {
			users = append(users, *leader)
		}
	}

	return users, nil
}

// Create adds a task to the team. Leader/admin only; an initial assignee
// must already belong to the team.
func (s *TaskService) Create(ctx context.Context, actor *model.User, teamID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	team, err := repository.NewTeamRepository(s.db).GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTask(actor, team) {
		return nil, ErrPermissionDenied
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}

	if in.AssigneeID != nil {
		isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, teamID, *in.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrNotATeamMember
		}
	}

	task := &model.Task{
		ID:          uuid.New(),
		TeamID:      teamID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      model.StatusNotStarted,
		DueDate:     in.DueDate,
		AssigneeID:  in.AssigneeID,
		CreatedBy:   actor.ID,
		Tags:        in.Tags,
	}

	var deliveries []Delivery
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewTaskRepository(tx).Create(ctx, task); err != nil {
			return err
		}

		activity := &model.TaskActivity{
			ID:          uuid.New(),
			TaskID:      task.ID,
			ActorID:     actor.ID,
			Kind:        model.ActivityCreated,
			Description: fmt.Sprintf("Task %q created.", task.Title),
		}
		if err := repository.NewActivityRepository(tx).Create(ctx, activity); err != nil {
			return err
		}

		if task.AssigneeID != nil && *task.AssigneeID != actor.ID {
			assignee, err := repository.NewUserRepository(tx).GetByID(ctx, *task.AssigneeID)
			if err != nil {
				return err
			}
			if assignee != nil {
				message := fmt.Sprintf("You have been assigned to task %q in team %q.", task.Title, team.Name)
				d, err := s.notifier.Record(ctx, tx, *assignee, model.NotificationTaskAssigned, message, &task.ID, task.Title)
				if err != nil {
					return err
				}
				deliveries = append(deliveries, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Deliver(ctx, deliveries...)
	return task, nil
}

// ChangeStatus moves the task to newStatus. Permitted for the assignee, the
// team's leader, or an admin; any of the four status values is a legal
// target, ordering is intentionally not enforced.
func (s *TaskService) ChangeStatus(ctx context.Context, actor *model.User, taskID uuid.UUID, newStatus string) (*model.Task, error) {
	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanChangeStatus(actor, task, team) {
		return nil, ErrPermissionDenied
	}
	if !model.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	oldStatus := task.Status
	if oldStatus == newStatus {
		return task, nil
	}

	recipients, err := s.stakeholders(ctx, task, team, actor.ID)
	if err != nil {
		return nil, err
	}

	var deliveries []Delivery
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.Status = newStatus
		if err := repository.NewTaskRepository(tx).Update(ctx, task); err != nil {
			return err
		}

		activity := &model.TaskActivity{
			ID:      uuid.New(),
			TaskID:  task.ID,
			ActorID: actor.ID,
			Kind:    model.ActivityStatusChanged,
			Description: fmt.Sprintf("Status changed from %s to %s.",
				model.StatusDisplay(oldStatus), model.StatusDisplay(newStatus)),
			OldValue: oldStatus,
			NewValue: newStatus,
		}
		if err := repository.NewActivityRepository(tx).Create(ctx, activity); err != nil {
			return err
		}

		message := fmt.Sprintf("Status for task %q in team %q changed to %s.",
			task.Title, team.Name, model.StatusDisplay(newStatus))
		for _, recipient := range recipients {
			d, err := s.notifier.Record(ctx, tx, recipient, model.NotificationStatusChanged, message, &task.ID, task.Title)
			if err != nil {
				return err
			}
			deliveries = append(deliveries, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Deliver(ctx, deliveries...)
	return task, nil
}

// Assign sets the task's assignee. Leader/admin only; the target must be a
// member of the task's team.
func (s *TaskService) Assign(ctx context.Context, actor *model.User, taskID, userID uuid.UUID) (*model.Task, error) {
	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssign(actor, team) {
		return nil, ErrPermissionDenied
	}

	isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, team.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotATeamMember
	}

	assignee, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, ErrNotATeamMember
	}

	oldAssigneeName := "Unassigned"
	if task.AssigneeID != nil {
		if old, err := repository.NewUserRepository(s.db).GetByID(ctx, *task.AssigneeID); err == nil && old != nil {
			oldAssigneeName = old.Name
		}
	}

	var deliveries []Delivery
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.AssigneeID = &assignee.ID
		if err := repository.NewTaskRepository(tx).Update(ctx, task); err != nil {
			return err
		}

		activity := &model.TaskActivity{
			ID:          uuid.New(),
			TaskID:      task.ID,
			ActorID:     actor.ID,
			Kind:        model.ActivityAssigned,
			Description: fmt.Sprintf("Assignment changed from %s to %s.", oldAssigneeName, assignee.Name),
			OldValue:    oldAssigneeName,
			NewValue:    assignee.Name,
		}
		if err := repository.NewActivityRepository(tx).Create(ctx, activity); err != nil {
			return err
		}

		if assignee.ID != actor.ID {
			message := fmt.Sprintf("You have been assigned to task %q in team %q.", task.Title, team.Name)
			d, err := s.notifier.Record(ctx, tx, *assignee, model.NotificationTaskAssigned, message, &task.ID, task.Title)
			if err != nil {
				return err
			}
			deliveries = append(deliveries, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Deliver(ctx, deliveries...)
	return task, nil
}

// AddComment appends an immutable comment and notifies the other
// stakeholders. Blank bodies are rejected.
func (s *TaskService) AddComment(ctx context.Context, actor *model.User, taskID uuid.UUID, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}

	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, team.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(actor, team, isMember) {
		return nil, ErrPermissionDenied
	}

	recipients, err := s.stakeholders(ctx, task, team, actor.ID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:       uuid.New(),
		TaskID:   task.ID,
		AuthorID: actor.ID,
		Body:     body,
	}

	var deliveries []Delivery
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}

		activity := &model.TaskActivity{
			ID:          uuid.New(),
			TaskID:      task.ID,
			ActorID:     actor.ID,
			Kind:        model.ActivityCommented,
			Description: "New comment added to task.",
			NewValue:    body,
		}
		if err := repository.NewActivityRepository(tx).Create(ctx, activity); err != nil {
			return err
		}

		message := fmt.Sprintf("%s commented on task %q in team %q.", actor.Name, task.Title, team.Name)
		for _, recipient := range recipients {
			d, err := s.notifier.Record(ctx, tx, recipient, model.NotificationCommentAdded, message, &task.ID, task.Title)
			if err != nil {
				return err
			}
			deliveries = append(deliveries, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Deliver(ctx, deliveries...)
	return comment, nil
}

type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Tags        string
}

// Update edits the task's descriptive fields. Creator, team leader, or
// admin; status and assignee have their own operations.
func (s *TaskService) Update(ctx context.Context, actor *model.User, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditTask(actor, task, team) {
		return nil, ErrPermissionDenied
	}
	if in.Priority != "" && !model.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}

	oldPriority := task.Priority

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Title != "" {
			task.Title = in.Title
		}
		task.Description = in.Description
		task.Tags = in.Tags
		task.DueDate = in.DueDate
		if in.Priority != "" {
			task.Priority = in.Priority
		}

		if err := repository.NewTaskRepository(tx).Update(ctx, task); err != nil {
			return err
		}

		activities := repository.NewActivityRepository(tx)
		if oldPriority != task.Priority {
			activity := &model.TaskActivity{
				ID:      uuid.New(),
				TaskID:  task.ID,
				ActorID: actor.ID,
				Kind:    model.ActivityPriorityChanged,
				Description: fmt.Sprintf("Priority changed from %s to %s.",
					model.PriorityDisplay(oldPriority), model.PriorityDisplay(task.Priority)),
				OldValue: oldPriority,
				NewValue: task.Priority,
			}
			if err := activities.Create(ctx, activity); err != nil {
				return err
			}
		}

		edited := &model.TaskActivity{
			ID:          uuid.New(),
			TaskID:      task.ID,
			ActorID:     actor.ID,
			Kind:        model.ActivityEdited,
			Description: "Task details updated.",
		}
		return activities.Create(ctx, edited)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task. Creator or admin only; dependent rows cascade.
func (s *TaskService) Delete(ctx context.Context, actor *model.User, taskID uuid.UUID) error {
	task, _, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(actor, task) {
		return ErrPermissionDenied
	}
	return repository.NewTaskRepository(s.db).Delete(ctx, taskID)
}

// AddAttachment records attachment metadata for a file the handler already
// stored on disk.
func (s *TaskService) AddAttachment(ctx context.Context, actor *model.User, taskID uuid.UUID, fileName, storedPath string) (*model.Attachment, error) {
	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, team.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(actor, team, isMember) {
		return nil, ErrPermissionDenied
	}

	attachment := &model.Attachment{
		ID:         uuid.New(),
		TaskID:     task.ID,
		UploadedBy: actor.ID,
		FileName:   fileName,
		StoredPath: storedPath,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewAttachmentRepository(tx).Create(ctx, attachment); err != nil {
			return err
		}
		activity := &model.TaskActivity{
			ID:          uuid.New(),
			TaskID:      task.ID,
			ActorID:     actor.ID,
			Kind:        model.ActivityAttachmentAdded,
			Description: fmt.Sprintf("Attachment %q uploaded.", fileName),
			NewValue:    fileName,
		}
		return repository.NewActivityRepository(tx).Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

// Get returns the task if the actor may view its team.
func (s *TaskService) Get(ctx context.Context, actor *model.User, taskID uuid.UUID) (*model.Task, error) {
	task, team, err := s.loadTaskTeam(ctx, taskID)
	if err != nil {
		return nil, err
	}
	isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, team.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTeam(actor, team, isMember) {
		return nil, ErrPermissionDenied
	}
	return task, nil
}

// ListByTeam returns the team's tasks, filtered, if the actor may view the
// team.
func (s *TaskService) ListByTeam(ctx context.Context, actor *model.User, teamID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	team, err := repository.NewTeamRepository(s.db).GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	isMember, err := repository.NewTeamRepository(s.db).IsMember(ctx, team.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTeam(actor, team, isMember) {
		return nil, ErrPermissionDenied
	}
	return repository.NewTaskRepository(s.db).ListByTeam(ctx, teamID, filter)
}

// MyTasks returns the tasks assigned to the actor across active teams.
func (s *TaskService) MyTasks(ctx context.Context, actor *model.User) ([]model.Task, error) {
	return repository.NewTaskRepository(s.db).ListAssignedTo(ctx, actor.ID)
}
