// cmd/dashboard/main.go
package main

import (
	"net/http"

	"go.uber.org/zap"

	"ideas-pipeline/internal/common/config"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/dashboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	// Read-only server: no provider credentials are needed here.
	loader := dashboard.NewLoader(cfg.Storage.AnalysisDir, log)
	server := dashboard.NewServer(loader, log)

	zapLog.Info("dashboard listening", zap.String("addr", cfg.Dashboard.ListenAddr))
	if err := http.ListenAndServe(cfg.Dashboard.ListenAddr, server.Handler()); err != nil {
		zapLog.Fatal("dashboard server failed", zap.Error(err))
	}
}
