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

	"quiz-client/internal/demobackend"
	"quiz-client/internal/logger"
	"quiz-client/internal/opentdb"
)

func main() {
	defaultAddr := os.Getenv("ADDR")
	if defaultAddr == "" {
		defaultAddr = ":8080"
	}

	addr := flag.String("addr", defaultAddr, "HTTP listen address")
	source := flag.String("source", "template", "question source: template or opentdb")
	triviaURL := flag.String("opentdb-url", "", "override the OpenTriviaDB endpoint")
	logMode := flag.String("log-mode", "dev", "log mode: dev or prod")
	logFile := flag.String("log-file", "", "also write logs to this rotating file")
	flag.Parse()

	log, err := logger.New(logger.Options{Mode: *logMode, File: *logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, *addr, *source, *triviaURL); err != nil {
		log.Error("demo backend stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *logger.Logger, addr, sourceName, triviaURL string) error {
	var source demobackend.QuestionSource
	switch sourceName {
	case "template":
		source = demobackend.NewTemplateSource(nil)
	case "opentdb":
		source = demobackend.NewTriviaSource(opentdb.NewClient(nil).WithEndpoint(triviaURL), nil)
	default:
		return fmt.Errorf("unknown question source %q", sourceName)
	}

	store := demobackend.NewStore()
	if err := store.SeedDefaultUsers(); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           demobackend.NewRouter(store, demobackend.Options{Source: source, Logger: log}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("quiz demo backend listening", "addr", addr, "source", sourceName)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
