package service

import (
	"context"
	"fmt"
	"log"

	"teamtodo/internal/model"
	"teamtodo/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier creates in-app notification records and attempts best-effort
// email delivery. The in-app record is authoritative: it is written inside
// the caller's transaction, while emails go out only after that transaction
// has committed and can never roll anything back.
type Notifier struct {
	db           *gorm.DB
	sender       EmailSender
	emailEnabled bool
}

func NewNotifier(db *gorm.DB, sender EmailSender, emailEnabled bool) *Notifier {
	return &Notifier{db: db, sender: sender, emailEnabled: emailEnabled}
}

// Delivery is a pending email accumulated during a transaction and handed
// back to Deliver once the transaction commits.
type Delivery struct {
	Recipient model.User
	Kind      string
	Message   string
	TaskTitle string
}

// Record inserts the notification row using tx so it commits or fails
// together with the triggering state change. It returns the delivery to
// attempt after commit.
func (n *Notifier) Record(ctx context.Context, tx *gorm.DB, recipient model.User, kind, message string, taskID *uuid.UUID, taskTitle string) (Delivery, error) {
	notification := &model.Notification{
		ID:          uuid.New(),
		RecipientID: recipient.ID,
		Kind:        kind,
		Message:     message,
		TaskID:      taskID,
	}
	if err := repository.NewNotificationRepository(tx).Create(ctx, notification); err != nil {
		return Delivery{}, err
	}
	return Delivery{Recipient: recipient, Kind: kind, Message: message, TaskTitle: taskTitle}, nil
}

// Deliver attempts one email per delivery. Failures are logged and
// swallowed; delivery is best-effort by contract.
func (n *Notifier) Deliver(ctx context.Context, deliveries ...Delivery) {
	for _, d := range deliveries {
		if !n.emailEnabled || d.Recipient.Email == "" {
			continue
		}

		pref, err := repository.NewUserRepository(n.db).GetPreferences(ctx, d.Recipient.ID)
		if err != nil {
			log.Printf("notifier: failed to load preferences for %s: %v", d.Recipient.Email, err)
			continue
		}
		if !pref.AllowsEmail(d.Kind) {
			continue
		}

		subject := fmt.Sprintf("[Team Todo] %s", model.NotificationKindDisplay(d.Kind))
		body := d.Message
		if d.TaskTitle != "" {
			body += fmt.Sprintf("\n\nTask: %s", d.TaskTitle)
		}
		body += "\n\nLog in to Team Todo to view more details."

		if err := n.sender.Send(d.Recipient.Email, subject, body); err != nil {
			log.Printf("notifier: delivery failure (ignored): %v", err)
		}
	}
}
