package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/config"
	"github.com/rhyrak/pick-scheduler/internal/ipsolver"
	"github.com/rhyrak/pick-scheduler/internal/logger"
	"github.com/rhyrak/pick-scheduler/internal/metrics"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	srv := newServer(cfg, log, metrics.NewRecorder(), ipsolver.New(log))
	if err := os.MkdirAll(srv.generatedDir(), 0o755); err != nil {
		log.Fatal("failed to create storage directory", zap.String("dir", srv.generatedDir()), zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("listening", zap.String("addr", addr), zap.String("storage", cfg.Server.StorageDir))
	if err := srv.routes().Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
