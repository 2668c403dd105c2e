package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wfunc/timebomb/config"
	"github.com/wfunc/timebomb/logger"
	"github.com/wfunc/timebomb/monitor"
	"github.com/wfunc/timebomb/server"
	"github.com/wfunc/timebomb/timer"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.Init(cfg.Server.Debug)
	defer logger.Sync()

	// Metrics endpoint
	mon := monitor.NewMonitor("timebomb")
	mon.StartServer(cfg.Server.MetricsAddress)
	logger.Log.Infof("Metrics listening on %s", cfg.Server.MetricsAddress)

	// Deferred task service (eviction sweeps, metrics sampling)
	timers := timer.NewManager()
	defer timers.Stop()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, mon, timers)

	go func() {
		if err := gameServer.Start(); err != nil {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Shutdown error: %v", err)
	}
}
