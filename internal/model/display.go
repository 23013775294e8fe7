package model

// StatusDisplay returns the human-readable form of a task status, used in
// activity descriptions and notification messages.
func StatusDisplay(status string) string {
	switch status {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusCompleted:
		return "Completed"
	}
	return status
}

func PriorityDisplay(priority string) string {
	switch priority {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return priority
}

func NotificationKindDisplay(kind string) string {
	switch kind {
	case NotificationTaskAssigned:
		return "Task Assigned"
	case NotificationStatusChanged:
		return "Status Changed"
	case NotificationCommentAdded:
		return "Comment Added"
	case NotificationDeadlineApproaching:
		return "Deadline Approaching"
	case NotificationTaskOverdue:
		return "Task Overdue"
	}
	return kind
}
