package main

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/grading"
	"github.com/example/lingobot/internal/lesson"
	"github.com/example/lingobot/pkg/models"
)

// submitRequest is one recorded answer. Audio is base64-encoded.
type submitRequest struct {
	ID       int64           `json:"id"`
	QuizType models.QuizKind `json:"quizType"`
	Audio    string          `json:"audio"`
}

type submitResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

type cardRequest struct {
	ID int64 `json:"id"`
}

type rollbackRequest struct {
	ID             int64                 `json:"id"`
	SchedulingData models.MemorySnapshot `json:"schedulingData"`
}

// serve exposes the grading and lesson operations over JSON.
func serve(o *grading.Orchestrator, b *lesson.Builder) {
	cards := database.NewCardRepository()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/submit-answer", func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			http.Error(w, "audio is not valid base64", http.StatusBadRequest)
			return
		}
		res := o.SubmitAnswer(r.Context(), req.ID, req.QuizType, audio)
		writeJSON(w, submitResponse{Result: res.Kind.String(), Message: res.Message})
	})

	mux.HandleFunc("/api/fail-card", func(w http.ResponseWriter, r *http.Request) {
		var req cardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := o.FailCard(r.Context(), req.ID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/api/flag-card", func(w http.ResponseWriter, r *http.Request) {
		var req cardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := cards.Flag(r.Context(), req.ID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/api/rollback-grade", func(w http.ResponseWriter, r *http.Request) {
		var req rollbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := o.UndoLastGrade(r.Context(), req.ID, req.SchedulingData); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/api/lesson", func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		if err != nil {
			http.Error(w, "user query parameter is required", http.StatusBadRequest)
			return
		}
		snapshots, totals, err := b.FetchDue(r.Context(), userID, lesson.DefaultBatchSize)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"cards":  snapshots,
			"totals": totals,
		})
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
	}
	go func() {
		log.Printf("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
