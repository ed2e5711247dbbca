package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/lingobot/internal/ai"
	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/grading"
	"github.com/example/lingobot/internal/lesson"
	"github.com/example/lingobot/internal/scheduler"
	"github.com/example/lingobot/internal/srs"
	"github.com/example/lingobot/internal/transcribe"
)

// logNotifier writes reminders to the log. Delivery to a real channel
// (push, chat, mail) is a deployment concern layered on top.
type logNotifier struct{}

func (logNotifier) SendReminder(userID int64, dueCount int) error {
	log.Printf("User %d has %d cards due for review", userID, dueCount)
	return nil
}

func main() {
	// Load .env if present; real environments set variables directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is not set")
	}

	judge, err := ai.NewClient(os.Getenv("OPENAI_ENDPOINT"), apiKey, os.Getenv("ORACLE_MODEL"))
	if err != nil {
		log.Fatalf("Failed to create oracle client: %v", err)
	}

	stt, err := transcribe.NewClient(os.Getenv("OPENAI_ENDPOINT"), apiKey, os.Getenv("TRANSCRIBE_MODEL"))
	if err != nil {
		log.Fatalf("Failed to create transcription client: %v", err)
	}

	learnerLang := os.Getenv("LEARNER_LANG")
	if learnerLang == "" {
		learnerLang = "en-US"
	}

	store := database.NewStore()
	engine := srs.New(srs.Config{})
	orchestrator := grading.NewOrchestrator(store, judge, stt, engine, learnerLang)
	builder := lesson.NewBuilder(store.Cards, store.Memory)
	serve(orchestrator, builder)

	reminders := scheduler.New(store.Cards, logNotifier{})
	reminders.Start()
	defer reminders.Stop()

	log.Println("lingobot started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
