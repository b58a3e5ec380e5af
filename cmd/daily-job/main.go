// cmd/daily-job/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ideas-pipeline/internal/apify"
	"ideas-pipeline/internal/common/config"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/gemini"
	"ideas-pipeline/internal/pipeline/analysis"
	"ideas-pipeline/internal/pipeline/extract"
	"ideas-pipeline/internal/pipeline/fetch"
	"ideas-pipeline/internal/pipeline/orchestrator"
	"ideas-pipeline/internal/pipeline/publish"
	"ideas-pipeline/internal/pipeline/snapshot"
)

func main() {
	cronSpec := flag.String("cron", "", "stay resident and run on this cron schedule instead of once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	// Credentials are a pre-run failure, never a mid-stage one.
	if err := config.ValidateCredentials(cfg); err != nil {
		zapLog.Fatal("credential validation failed", zap.Error(err))
	}

	orch := buildOrchestrator(cfg, log)

	spec := *cronSpec
	if spec == "" {
		spec = cfg.Schedule.Cron
	}
	if spec == "" {
		result := orch.Run(context.Background())
		if result.State == orchestrator.StateFailed {
			zapLog.Error("pipeline run failed", zap.String("runId", result.RunID), zap.Error(result.Err))
			os.Exit(1)
		}
		zapLog.Info("pipeline run succeeded",
			zap.String("runId", result.RunID),
			zap.String("snapshot", result.SnapshotPath),
			zap.String("analysis", result.AnalysisPath),
		)
		return
	}

	runResident(cfg, orch, zapLog, spec)
}

func buildOrchestrator(cfg *config.Config, log logger.Logger) *orchestrator.Orchestrator {
	apifyClient := apify.NewClient(cfg.Scraper.BaseURL, cfg.Scraper.Token, cfg.Scraper.GetTimeout(), log)
	geminiClient := gemini.NewClient(
		cfg.Gemini.BaseURL,
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		gemini.GenerationConfig{
			Temperature: cfg.Gemini.Temperature,
			TopP:        cfg.Gemini.TopP,
			TopK:        cfg.Gemini.TopK,
		},
		cfg.Gemini.GetTimeout(),
		log,
	)

	fetcher := fetch.NewHandler(&fetch.Config{
		ActorID: cfg.Scraper.ActorID,
		Filters: fetch.FilterSpecFromConfig(cfg.Scraper.Filters),
	}, apifyClient, log)

	var publisher orchestrator.Publisher
	if cfg.Publish.Enabled {
		publisher = publish.NewHandler(&publish.Config{
			RepoPath:    cfg.Publish.RepoPath,
			RemoteName:  cfg.Publish.RemoteName,
			Token:       cfg.Publish.Token,
			AuthorName:  cfg.Publish.AuthorName,
			AuthorEmail: cfg.Publish.AuthorEmail,
		}, log)
	}

	return orchestrator.New(
		fetcher,
		snapshot.NewHandler(cfg.Storage.ScrapedDir, log),
		extract.NewHandler(geminiClient, log),
		analysis.NewHandler(cfg.Storage.AnalysisDir, log),
		publisher,
		cfg.Storage.DataDir,
		log,
	)
}

// runResident keeps the process alive, triggering a run per cron tick
// and serving /metrics in between.
func runResident(cfg *config.Config, orch *orchestrator.Orchestrator, zapLog *zap.Logger, spec string) {
	scheduler := cron.New(cron.WithLocation(time.Local))
	if _, err := scheduler.AddFunc(spec, func() {
		result := orch.Run(context.Background())
		if result.State == orchestrator.StateFailed {
			zapLog.Error("scheduled run failed", zap.String("runId", result.RunID), zap.Error(result.Err))
		}
	}); err != nil {
		zapLog.Fatal("invalid cron schedule", zap.String("schedule", spec), zap.Error(err))
	}
	scheduler.Start()
	zapLog.Info("scheduler started", zap.String("schedule", spec))

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		zapLog.Info("metrics server listening", zap.String("addr", cfg.Metrics.ListenAddr))
		if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, stopping scheduler")
	<-scheduler.Stop().Done()
	zapLog.Info("scheduler stopped")
}
