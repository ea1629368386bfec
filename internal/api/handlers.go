package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nurlansk/conversation-reports/internal/repo"
	"github.com/nurlansk/conversation-reports/internal/scheduler"
	"github.com/nurlansk/conversation-reports/internal/service"
)

type Handler struct {
	sched    *scheduler.Daily
	repo     repo.MessageRepository
	reporter *service.Reporter
}

func NewHandler(s *scheduler.Daily, r repo.MessageRepository, rep *service.Reporter) *Handler {
	return &Handler{sched: s, repo: r, reporter: rep}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) SchedulerStart(w http.ResponseWriter, r *http.Request) {
	h.sched.Start()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) SchedulerStop(w http.ResponseWriter, r *http.Request) {
	h.sched.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) CountMessages(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parsePeriodQuery(w, r)
	if !ok {
		return
	}

	n, err := h.repo.CountBetween(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

// GenerateReport renders a report for the requested period and streams it
// back; the temporary file is removed once the response is written.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parsePeriodQuery(w, r)
	if !ok {
		return
	}

	rep, err := h.reporter.Generate(r.Context(), start, end)
	if errors.Is(err, service.ErrNoConversations) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no conversations in period"})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.Remove(rep.Path); err != nil {
			slog.Warn("failed to delete temporary report file", "path", rep.Path, "error", err)
		}
	}()

	data, err := os.ReadFile(rep.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parsePeriodQuery reads start/end DD-MM-YYYY query params. On bad input
// it answers 400 with a format hint and returns ok=false.
func parsePeriodQuery(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "start and end query params are required, format DD-MM-YYYY",
		})
		return time.Time{}, time.Time{}, false
	}

	start, err := service.ParseDate(startRaw)
	if err == nil {
		end, err = service.ParseDate(endRaw)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
