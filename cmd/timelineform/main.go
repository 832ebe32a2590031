package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/goliatone/go-timelineform/internal/logging"
	"github.com/goliatone/go-timelineform/internal/server"
	"github.com/goliatone/go-timelineform/pkg/client"
	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/journal"
	"github.com/goliatone/go-timelineform/pkg/openapi"
	"github.com/goliatone/go-timelineform/pkg/render"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type flags struct {
	envFile     string
	configPath  string
	addr        string
	train       string
	predict     string
	journalPath string
	logLevel    string
	logFormat   string
}

func main() {
	var f flags
	flag.StringVar(&f.envFile, "env", ".env", "dotenv file to load (missing files are ignored)")
	flag.StringVar(&f.configPath, "config", "", "timeline configuration file (overrides CONFIG_PATH)")
	flag.StringVar(&f.addr, "addr", "", "listen address (overrides ADDR)")
	flag.StringVar(&f.train, "train", "", "training server base URL (overrides TRAINING_SERVER)")
	flag.StringVar(&f.predict, "predict", "", "prediction server base URL (overrides PREDICTION_SERVER)")
	flag.StringVar(&f.journalPath, "journal", "", "sqlite journal path, :memory: for a transient one (overrides JOURNAL_PATH)")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flag.StringVar(&f.logFormat, "log-format", "", "text or json (overrides LOG_FORMAT)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		log.Fatalf("timelineform: %v", err)
	}
}

func run(ctx context.Context, f flags) error {
	env, err := config.LoadEnv(f.envFile)
	if err != nil {
		return err
	}
	env = f.apply(env)
	if err := env.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, env.LogLevel, env.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	file, err := config.LoadFile(env.ConfigPath)
	if err != nil {
		return err
	}
	set, err := file.Set()
	if err != nil {
		return err
	}

	doc, err := openapi.Build(ctx, set,
		openapi.WithTitle(file.Form.Title),
		openapi.WithServers(env.TrainingServer, env.PredictionServer),
	)
	if err != nil {
		return err
	}

	services := client.New(env.TrainingServer, env.PredictionServer,
		client.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		client.WithValidator(doc.Validator()),
	)

	options := []server.Option{
		server.WithLogger(logger),
		server.WithForm(file.Form),
		server.WithOpenAPI(doc),
		server.WithSessionLimit(env.SessionLimit),
	}
	if manifest, ok := file.Manifest(file.Form.Theme); ok {
		options = append(options, server.WithTheme(render.ThemeConfig(manifest, file.Form.Variant)))
	}
	if env.JournalPath != "" {
		store, err := journal.Open(ctx, env.JournalPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("close journal failed", "err", err)
			}
		}()
		options = append(options, server.WithJournal(store))
	}

	srv, err := server.New(set, services, services, options...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              env.Addr,
		Handler:           h2c.NewHandler(srv.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", env.Addr,
			"config", env.ConfigPath,
			"timelines", set.Len(),
			"training", services.TrainURL(),
			"prediction", services.PredictURL(),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// apply overrides env with the flags that were set.
func (f flags) apply(env config.Env) config.Env {
	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&env.ConfigPath, f.configPath)
	override(&env.Addr, f.addr)
	override(&env.TrainingServer, f.train)
	override(&env.PredictionServer, f.predict)
	override(&env.JournalPath, f.journalPath)
	override(&env.LogLevel, f.logLevel)
	override(&env.LogFormat, f.logFormat)
	return env
}
