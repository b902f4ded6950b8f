package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CrowderSoup/todo-agenda/config"
	"github.com/CrowderSoup/todo-agenda/database"
	"github.com/CrowderSoup/todo-agenda/handlers"
	"github.com/CrowderSoup/todo-agenda/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := services.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The store is ready before the server accepts connections
	db, err := database.InitDB(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	todoService := database.NewTodoService(db, cfg.StoreTimeout.Duration)

	hub := services.NewHub(logger)
	go hub.Run(ctx)

	router := handlers.NewRouter(handlers.RouterOptions{
		Store:                 todoService,
		Hub:                   hub,
		Logger:                logger,
		AllowedOrigins:        cfg.AllowedOrigins,
		UpdateMissingNotFound: cfg.UpdateMissingNotFound,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
