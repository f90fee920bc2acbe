package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/landseek/backend/internal/config"
	"github.com/landseek/backend/internal/db"
	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/obs"
	"github.com/landseek/backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logger := obs.NewLogger(cfg.Env)

	srv := server.New(nil, cfg, logger)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			logger.Error("db connect error", "err", err)
			return
		}
		if err := conn.AutoMigrate(
			&model.User{},
			&model.Listing{},
			&model.Message{},
			&model.WatchEntry{},
			&model.Notification{},
		); err != nil {
			logger.Error("auto migrate error", "err", err)
		}
		srv.SetDB(conn)
		logger.Info("database ready")
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
