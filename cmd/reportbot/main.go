package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nurlansk/conversation-reports/internal/api"
	"github.com/nurlansk/conversation-reports/internal/bot"
	"github.com/nurlansk/conversation-reports/internal/cache"
	"github.com/nurlansk/conversation-reports/internal/client"
	"github.com/nurlansk/conversation-reports/internal/config"
	"github.com/nurlansk/conversation-reports/internal/report"
	"github.com/nurlansk/conversation-reports/internal/repo"
	"github.com/nurlansk/conversation-reports/internal/scheduler"
	"github.com/nurlansk/conversation-reports/internal/service"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	db, err := repo.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	messages := repo.NewSQLiteMessageRepo(db)

	var ledger cache.DeliveryLedger
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		ledger = cache.NewRedisLedger(rdb, cfg.Redis.TTL)
	}

	tg, err := client.NewTelegram(cfg.Telegram.Token)
	if err != nil {
		log.Fatal(err)
	}

	reporter := service.NewReporter(messages, report.NewExporter(), cfg.Report.BotPhone, cfg.Report.OutputDir)
	deliverer := service.NewDeliverer(tg, cfg.Report.MaxAttempts)
	job := service.NewDailyReportJob(reporter, deliverer, ledger, cfg.Telegram.AdminChatID)

	sched, err := scheduler.New(cfg.Report.Location, cfg.Report.TriggerHour, cfg.Report.TriggerMin, job.Run)
	if err != nil {
		log.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go bot.New(tg, reporter, deliverer, cfg.Report.Location).Run(ctx, tg.Updates())

	h := api.NewHandler(sched, messages, reporter)
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: loggingMiddleware(api.Router(h)),
	}

	go func() {
		slog.Info("reportbot starting",
			"addr", cfg.Server.Address,
			"zone", cfg.Report.Timezone,
			"redis", cfg.Redis.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
