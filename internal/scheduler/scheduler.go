// Package scheduler runs the periodic due-review scan and pushes
// reminders through a Notifier.
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/lingobot/internal/database"
)

// Default quiet-hours bounds for reminders.
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier delivers a due-review reminder to a learner.
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	cards     *database.CardRepository
	notifier  Notifier
}

// New creates a new scheduler instance
func New(cards *database.CardRepository, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cards:     cards,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every learner with due cards, unless
// the current hour falls outside the reminder window.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()
	startHour := envHour("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := envHour("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	userIDs, err := s.cards.UserIDs(ctx)
	if err != nil {
		log.Printf("Error getting users for reminders: %v", err)
		return
	}

	for _, userID := range userIDs {
		count, err := s.cards.CountDueForUser(ctx, userID)
		if err != nil {
			log.Printf("Error counting due cards for user %d: %v", userID, err)
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(userID, count); err != nil {
			log.Printf("Error sending reminder to user %d: %v", userID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	count, err := s.cards.CountDueForUser(context.Background(), userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.SendReminder(userID, count)
	}
	return nil
}

// envHour reads an hour override from the environment, keeping the
// fallback when unset or out of range.
func envHour(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 0 || h > 23 {
		return fallback
	}
	return h
}
