package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stroymarket/config"
	"stroymarket/db"
	"stroymarket/db/migrations"
	"stroymarket/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Cannot load config", "err", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	dbConn, err := db.Connect(cfg.PostgresConn)
	if err != nil {
		log.Fatal("Cannot connect to DB", "err", err)
	}

	if err := migrations.Run(dbConn.DB); err != nil {
		log.Fatal("Migrations failed", "err", err)
	}

	store := db.NewStorage(dbConn)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seed.Run(ctx, store); err != nil {
		log.Fatal("Seeding failed", "err", err)
	}

	// The business routes live in the service layer; this process only
	// exposes a liveness endpoint.
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info("Starting server", "addr", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", "err", err)
	}
}
