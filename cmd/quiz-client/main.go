package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"quiz-client/internal/apiclient"
	"quiz-client/internal/cli"
	"quiz-client/internal/config"
	"quiz-client/internal/credstore"
	"quiz-client/internal/credstore/sqlite"
	"quiz-client/internal/flow"
	"quiz-client/internal/logger"
	"quiz-client/internal/session"
)

const memoryProfile = "memory"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}

	// Console logging would interleave with the prompt, so it is only enabled
	// when no log file is configured.
	log, err := logger.New(logger.Options{
		Mode:  cfg.Log.Mode,
		File:  cfg.Log.File,
		Quiet: strings.TrimSpace(cfg.Log.File) != "",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	kv, closeKV, err := openProfile(cfg.Profile.Path)
	if err != nil {
		return err
	}
	defer closeKV()

	client := apiclient.New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, log)
	manager := session.NewManager(credstore.NewKVStore(kv), client, log)
	router := cli.NewRouter(apiclient.SignInRoute)
	client.UseAuthenticator(manager)
	client.UseNavigator(router)

	controller := flow.NewController(client, manager, flow.Options{
		BackendURL: client.BaseURL(),
		Logger:     log,
	})

	log.Info("quiz client starting", "server", client.BaseURL(), "profile", cfg.Profile.Path)
	return cli.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{
		Session:    manager,
		Flow:       controller,
		Router:     router,
		History:    client,
		BackendURL: client.BaseURL(),
		Logger:     log,
	})
}

func openProfile(path string) (credstore.KeyValue, func(), error) {
	if strings.EqualFold(path, memoryProfile) {
		return credstore.NewMemoryKV(), func() {}, nil
	}
	store, err := sqlite.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open profile %s: %w", path, err)
	}
	return store, func() { _ = store.Close() }, nil
}
