package main

import (
	"context"
	"log"
	"os"
	"time"

	"teamtodo/internal/config"
	"teamtodo/internal/server"
	"teamtodo/internal/service"
)

// deadline-scan runs one pass over incomplete tasks and sends
// deadline_approaching and task_overdue notifications. It is meant to run
// from cron; repeated runs within a window do not double-send.
func main() {
	cfg := config.Load()

	db, err := server.OpenDB(cfg)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	var sender service.EmailSender
	if cfg.EmailEnabled {
		sender = service.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	}
	notifier := service.NewNotifier(db, sender, cfg.EmailEnabled)
	scanner := service.NewDeadlineScanner(db, notifier)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := scanner.Scan(ctx, time.Now())
	if err != nil {
		log.Printf("Deadline scan failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Deadline scan complete: scanned=%d due_soon=%d overdue=%d failed=%d",
		summary.Scanned, summary.DueSoon, summary.Overdue, summary.Failed)
}
