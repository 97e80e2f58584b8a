package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("invalid log level", "level", cfg.LogLevel, "err", err)
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	var analytics *sqlc.AnalyticsManager
	if cfg.AnalyticsEnabled() {
		psqlDb := db.MustConnectToDb(cfg.DatabaseURL, db.DefaultMigrationSource)
		defer psqlDb.Close()
		analytics = sqlc.NewDbManager(psqlDb).Analytics
	} else {
		log.Warn("DATABASE_URL is empty; analytics disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bsm := mc.NewBattleshipSessionManager()
	go bsm.CleanupPeriodically(ctx)

	bgm := mb.NewBattleshipGameManager(mb.DefaultShipRoster)
	rp := api.NewRequestProcessor(bsm, bgm, analytics, cfg.GridSize)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	log.Info("listening", "port", cfg.Port, "stage", cfg.Stage, "grid", cfg.GridSize, "ip", rp.GetIpNet().IP.String())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", "err", err)
	}
	log.Info("server stopped", "sessions", bsm.CountSessions(), "games", bgm.CountGames())
}
