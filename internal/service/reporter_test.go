package service_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/nurlansk/conversation-reports/internal/model"
	"github.com/nurlansk/conversation-reports/internal/service"
)

type fakeRepo struct {
	msgs []model.Message
	err  error

	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.Message, error) {
	f.gotStart, f.gotEnd = start, end
	return f.msgs, f.err
}

func (f *fakeRepo) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	return len(f.msgs), f.err
}

// fakeExporter records its arguments and writes a marker file so delivery
// cleanup has something real to delete.
type fakeExporter struct {
	gotConvs  []model.Conversation
	gotPeriod string
	gotPath   string
	err       error
}

func (f *fakeExporter) Export(convs []model.Conversation, period, path string) error {
	f.gotConvs = convs
	f.gotPeriod = period
	f.gotPath = path
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("xlsx"), 0o644)
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestReporter_Generate_SingleDay(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{msgs: []model.Message{
		{ID: 1, FromPhone: "A", ToPhone: "BOT", Text: "hi", DateTime: "2025-01-01T10:00:00+05:00"},
		{ID: 2, FromPhone: "BOT", ToPhone: "A", Text: "hello", DateTime: "2025-01-01T10:01:00+05:00"},
	}}
	exp := &fakeExporter{}
	reporter := service.NewReporter(repo, exp, "BOT", t.TempDir())

	day := mustDay(t, "2025-01-01")
	rep, err := reporter.Generate(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if rep.Conversations != 1 {
		t.Fatalf("expected 1 conversation, got %d", rep.Conversations)
	}
	if rep.FileName != "conversations-01-01-2025.xlsx" {
		t.Fatalf("unexpected FileName: %q", rep.FileName)
	}
	if rep.Caption != "Отзывы за период 01-01-2025" {
		t.Fatalf("unexpected Caption: %q", rep.Caption)
	}

	if exp.gotPeriod != "01-01-2025" {
		t.Fatalf("exporter got period %q", exp.gotPeriod)
	}
	if len(exp.gotConvs) != 1 || exp.gotConvs[0].ClientPhone != "A" {
		t.Fatalf("exporter got conversations %+v", exp.gotConvs)
	}
	if exp.gotConvs[0].Messages[0].ID != 1 || exp.gotConvs[0].Messages[1].ID != 2 {
		t.Fatalf("exporter got unordered messages: %+v", exp.gotConvs[0].Messages)
	}

	// The rendered path is request-scoped, not the delivery filename.
	if rep.Path == rep.FileName {
		t.Fatalf("expected request-scoped path, got %q", rep.Path)
	}
	if _, err := os.Stat(rep.Path); err != nil {
		t.Fatalf("expected rendered file at %q: %v", rep.Path, err)
	}
	_ = os.Remove(rep.Path)
}

func TestReporter_Generate_RangeLabels(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{msgs: []model.Message{
		{ID: 1, FromPhone: "A", ToPhone: "BOT", Text: "x", DateTime: "2025-08-01 10:00:00"},
	}}
	exp := &fakeExporter{}
	reporter := service.NewReporter(repo, exp, "BOT", t.TempDir())

	rep, err := reporter.Generate(context.Background(), mustDay(t, "2025-08-01"), mustDay(t, "2025-08-05"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	defer os.Remove(rep.Path)

	if rep.FileName != "conversations-01-08-2025_to_05-08-2025.xlsx" {
		t.Fatalf("unexpected FileName: %q", rep.FileName)
	}
	if rep.Caption != "Отзывы за период 01-08-2025 — 05-08-2025" {
		t.Fatalf("unexpected Caption: %q", rep.Caption)
	}
}

func TestReporter_Generate_UniquePathsPerRequest(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{msgs: []model.Message{
		{ID: 1, FromPhone: "A", ToPhone: "BOT", Text: "x", DateTime: "2025-01-01 10:00:00"},
	}}
	reporter := service.NewReporter(repo, &fakeExporter{}, "BOT", t.TempDir())

	day := mustDay(t, "2025-01-01")

	first, err := reporter.Generate(context.Background(), day, day)
	if err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	defer os.Remove(first.Path)

	second, err := reporter.Generate(context.Background(), day, day)
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	defer os.Remove(second.Path)

	if first.Path == second.Path {
		t.Fatalf("expected distinct paths for overlapping requests, both %q", first.Path)
	}
	if first.FileName != second.FileName {
		t.Fatalf("delivery filenames should match: %q vs %q", first.FileName, second.FileName)
	}
}

func TestReporter_Generate_NoMessages(t *testing.T) {
	t.Parallel()

	reporter := service.NewReporter(&fakeRepo{}, &fakeExporter{}, "BOT", t.TempDir())

	day := mustDay(t, "2025-01-01")
	_, err := reporter.Generate(context.Background(), day, day)
	if !errors.Is(err, service.ErrNoConversations) {
		t.Fatalf("expected ErrNoConversations, got %v", err)
	}
}

func TestReporter_Generate_RepoFailureIsNotEmpty(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{err: errors.New("db unreachable")}
	reporter := service.NewReporter(repo, &fakeExporter{}, "BOT", t.TempDir())

	day := mustDay(t, "2025-01-01")
	_, err := reporter.Generate(context.Background(), day, day)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if errors.Is(err, service.ErrNoConversations) {
		t.Fatalf("a store failure must not look like an empty period")
	}
	if !strings.Contains(err.Error(), "db unreachable") {
		t.Fatalf("expected wrapped repo error, got: %v", err)
	}
}

func TestReporter_Generate_ExportFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{msgs: []model.Message{
		{ID: 1, FromPhone: "A", ToPhone: "BOT", Text: "x", DateTime: "2025-01-01 10:00:00"},
	}}
	exp := &fakeExporter{err: errors.New("disk full")}
	reporter := service.NewReporter(repo, exp, "BOT", t.TempDir())

	day := mustDay(t, "2025-01-01")
	if _, err := reporter.Generate(context.Background(), day, day); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
