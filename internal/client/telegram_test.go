package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type capturedUpload struct {
	chatID   string
	caption  string
	fileName string
	content  string
}

func newTestTelegram(t *testing.T) (*Telegram, *capturedUpload) {
	t.Helper()

	captured := &capturedUpload{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"reportbot","username":"reportbot"}}`))

		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			captured.chatID = r.FormValue("chat_id")
			captured.caption = r.FormValue("text")
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"text":"x"}}`))

		case strings.HasSuffix(r.URL.Path, "/sendDocument"):
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			captured.chatID = r.FormValue("chat_id")
			captured.caption = r.FormValue("caption")
			if files := r.MultipartForm.File["document"]; len(files) == 1 {
				captured.fileName = files[0].Filename
				if f, err := files[0].Open(); err == nil {
					body, _ := io.ReadAll(f)
					captured.content = string(body)
					_ = f.Close()
				}
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":2,"date":0,"chat":{"id":1,"type":"private"}}}`))

		default:
			t.Errorf("unexpected API call: %s", r.URL.Path)
			_, _ = w.Write([]byte(`{"ok":false}`))
		}
	}))
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", srv.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("failed to construct bot API: %v", err)
	}
	return NewTelegramWithAPI(api), captured
}

func TestTelegram_SendText(t *testing.T) {
	tg, captured := newTestTelegram(t)

	if err := tg.SendText(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("SendText() error: %v", err)
	}
	if captured.chatID != "42" {
		t.Fatalf("expected chat_id 42, got %q", captured.chatID)
	}
	if captured.caption != "hello" {
		t.Fatalf("expected text %q, got %q", "hello", captured.caption)
	}
}

func TestTelegram_SendDocument_UsesDeliveryFileName(t *testing.T) {
	tg, captured := newTestTelegram(t)

	// The on-disk name carries a request-scoped suffix; the delivered
	// name must be the clean convention instead.
	path := filepath.Join(t.TempDir(), "conversations-01-01-2025-1234567.xlsx")
	if err := os.WriteFile(path, []byte("xlsx-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	err := tg.SendDocument(context.Background(), 42, path, "conversations-01-01-2025.xlsx", "Отзывы за период 01-01-2025")
	if err != nil {
		t.Fatalf("SendDocument() error: %v", err)
	}

	if captured.chatID != "42" {
		t.Fatalf("expected chat_id 42, got %q", captured.chatID)
	}
	if captured.fileName != "conversations-01-01-2025.xlsx" {
		t.Fatalf("expected delivery filename, got %q", captured.fileName)
	}
	if captured.caption != "Отзывы за период 01-01-2025" {
		t.Fatalf("unexpected caption: %q", captured.caption)
	}
	if captured.content != "xlsx-bytes" {
		t.Fatalf("unexpected uploaded content: %q", captured.content)
	}
}

func TestTelegram_SendDocument_MissingFile(t *testing.T) {
	tg, _ := newTestTelegram(t)

	err := tg.SendDocument(context.Background(), 42, "/nonexistent/report.xlsx", "f.xlsx", "c")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTelegram_ContextCanceled(t *testing.T) {
	tg, captured := newTestTelegram(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tg.SendText(ctx, 42, "hello"); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if captured.chatID != "" {
		t.Fatalf("no API call expected after cancellation, got chat_id %q", captured.chatID)
	}
}
