// Command matchserver is the process entrypoint: it loads configuration and
// the problem library, wires the judge client, Results Store, and Room
// manager together, and serves the Gateway-facing HTTP side channel plus
// the client-facing websocket duplex. Grounded on wsnet2's
// cmd/wsnet-lobby wiring style (flags, config load, dependency construction
// before serving), generalized from its client-test shape into a real
// server bootstrap.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/config"
	"github.com/Tien-Cheng/leetcode-99-sub000/gateway"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/log"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/problems"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file (defaults applied if empty)")
	problemsPath := flag.String("problems", "", "path to the JSON problem library")
	flag.Parse()

	if err := run(*configPath, *problemsPath); err != nil {
		fmt.Fprintln(os.Stderr, "matchserver:", err)
		os.Exit(1)
	}
}

func run(configPath, problemsPath string) error {
	conf := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		conf = loaded
	}

	logger := log.New(log.Config{Level: conf.LogLevel, File: conf.LogFile})

	if problemsPath == "" {
		return errors.New("-problems is required")
	}
	lib, err := problems.LoadFromFile(problemsPath)
	if err != nil {
		return err
	}
	logger.Infof("loaded problem library from %s", problemsPath)

	judgeClient := judge.NewClient(conf.Judge.BaseURL, conf.Judge.ConnectTimeout, conf.Judge.CacheTTL)

	var store *persistence.Store
	if conf.DB.DSN != "" {
		store, err = persistence.Open(conf.DB.DSN, 10)
		if err != nil {
			return err
		}
		logger.Infof("connected results store")
	} else {
		logger.Warn("no db.dsn configured; match results will not be persisted")
	}

	manager := gateway.NewManager(conf, logger, lib, judgeClient, store)
	router := manager.Router()
	router.Handle("/debug/vars", expvar.Handler())

	srv := &http.Server{
		Addr:         conf.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections stay open indefinitely
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", conf.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
