package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/repository"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"
)

// dueSoonWindow is how far ahead of the due date the approaching-deadline
// notification fires.
const dueSoonWindow = 24 * time.Hour

// DeadlineScanner walks incomplete assigned tasks and emits
// deadline_approaching and task_overdue notifications. Dedup is per task
// per kind per window: a notification row existing since the window start
// suppresses another, so repeated runs are safe.
type DeadlineScanner struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewDeadlineScanner(db *gorm.DB, notifier *Notifier) *DeadlineScanner {
	return &DeadlineScanner{db: db, notifier: notifier}
}

// Summary is one scan's counts.
type Summary struct {
	Scanned int
	DueSoon int
	Overdue int
	Failed  int
}

// Scan runs one pass at the given time. Per-task failures are collected and
// logged but do not stop the pass; the returned error is non-nil only when
// the candidate query itself fails.
func (s *DeadlineScanner) Scan(ctx context.Context, now time.Time) (Summary, error) {
	var summary Summary

	horizon := now.Add(dueSoonWindow)
	tasks, err := repository.NewTaskRepository(s.db).ListDeadlineCandidates(ctx, horizon)
	if err != nil {
		return summary, fmt.Errorf("listing deadline candidates: %w", err)
	}
	summary.Scanned = len(tasks)

	var errs *multierror.Error
	for i := range tasks {
		task := &tasks[i]

		kind := model.NotificationDeadlineApproaching
		since := task.DueDate.Add(-dueSoonWindow)
		message := fmt.Sprintf("Task %q in team %q is due within 24 hours.", task.Title, task.Team.Name)
		if task.IsOverdue(now) {
			kind = model.NotificationTaskOverdue
			since = *task.DueDate
			message = fmt.Sprintf("Task %q in team %q is overdue.", task.Title, task.Team.Name)
		}

		sent, err := s.notifyOnce(ctx, task, kind, since, message)
		if err != nil {
			summary.Failed++
			errs = multierror.Append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		if sent {
			if kind == model.NotificationTaskOverdue {
				summary.Overdue++
			} else {
				summary.DueSoon++
			}
		}
	}

	if errs.ErrorOrNil() != nil {
		log.Printf("deadline scan finished with errors: %v", errs)
	}
	return summary, nil
}

// notifyOnce records and delivers one notification for the task unless an
// equal-kind notification already exists since the window start. The
// existence check and insert share a transaction.
func (s *DeadlineScanner) notifyOnce(ctx context.Context, task *model.Task, kind string, since time.Time, message string) (bool, error) {
	var delivery Delivery
	sent := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repository.NewNotificationRepository(tx).ExistsSince(ctx, task.ID, kind, since)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		d, err := s.notifier.Record(ctx, tx, task.Assignee, kind, message, &task.ID, task.Title)
		if err != nil {
			return err
		}
		delivery = d
		sent = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if sent {
		s.notifier.Deliver(ctx, delivery)
	}
	return sent, nil
}
