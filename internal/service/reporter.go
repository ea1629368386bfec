package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nurlansk/conversation-reports/internal/conversation"
	"github.com/nurlansk/conversation-reports/internal/model"
	"github.com/nurlansk/conversation-reports/internal/repo"
)

// ErrNoConversations means the period held no messages; callers treat it
// as "nothing to report", not a failure.
var ErrNoConversations = errors.New("no conversations in period")

// Exporter renders conversations to a spreadsheet file at path.
type Exporter interface {
	Export(convs []model.Conversation, period, path string) error
}

// Report is a rendered report on disk, ready for delivery. Whoever
// delivers (or abandons) it owns deleting Path.
type Report struct {
	Path          string
	FileName      string
	Caption       string
	Conversations int
}

type Reporter struct {
	repo     repo.MessageRepository
	exporter Exporter
	botPhone string
	outDir   string
}

func NewReporter(r repo.MessageRepository, e Exporter, botPhone, outDir string) *Reporter {
	return &Reporter{
		repo:     r,
		exporter: e,
		botPhone: botPhone,
		outDir:   outDir,
	}
}

// Generate runs the full pipeline for the inclusive date range: read
// messages, group into conversations, render the spreadsheet. The output
// path carries a per-request suffix so overlapping requests never collide.
func (r *Reporter) Generate(ctx context.Context, start, end time.Time) (*Report, error) {
	msgs, err := r.repo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	convs := conversation.Build(msgs, r.botPhone)
	if len(convs) == 0 {
		return nil, ErrNoConversations
	}

	label := PeriodLabel(start, end)
	display := PeriodDisplay(start, end)

	path := filepath.Join(r.outDir, fmt.Sprintf("conversations-%s-%d.xlsx", label, time.Now().UnixNano()))
	if err := r.exporter.Export(convs, display, path); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return &Report{
		Path:          path,
		FileName:      fmt.Sprintf("conversations-%s.xlsx", label),
		Caption:       "Отзывы за период " + display,
		Conversations: len(convs),
	}, nil
}
