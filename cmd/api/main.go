package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hvv-tools/departureboard/internal/app"
	"github.com/hvv-tools/departureboard/internal/appconf"
	"github.com/hvv-tools/departureboard/internal/logging"
	"github.com/hvv-tools/departureboard/internal/restapi"
	"github.com/hvv-tools/departureboard/internal/webui"
)

func main() {
	var (
		configPath  string
		port        int
		env         string
		apiKeysFlag string
		endpoint    string
		rateLimit   int
	)

	flag.StringVar(&configPath, "config", "config.yml", "Path to the YAML configuration file")
	flag.IntVar(&port, "port", 0, "API server port (overrides config)")
	flag.StringVar(&env, "env", "", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "", "Comma Separated API Keys (overrides config)")
	flag.StringVar(&endpoint, "endpoint", "", "Geofox GTI base URL (overrides config)")
	flag.IntVar(&rateLimit, "rate-limit", -1, "Requests per second per API key (overrides config)")
	flag.Parse()

	cfg, err := appconf.Load(configPath, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlags(&cfg, port, env, apiKeysFlag, endpoint, rateLimit)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stdout, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cfg.Geofox.User == "" || cfg.Geofox.Secret == "" {
		logger.Warn("geofox credentials are not configured, every lookup will fail",
			slog.String("component", "main"))
	}

	application := app.New(cfg, logger)
	api := restapi.NewRestAPI(application)
	ui := &webui.WebUI{Application: application}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.Routes())
	ui.SetWebUIRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2*cfg.Timeout() + 5*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.LogError(logger, "shutdown failed", err)
		}
	}()

	logger.Info("starting server",
		slog.String("addr", srv.Addr),
		slog.String("env", cfg.Env.String()),
		slog.String("endpoint", cfg.Geofox.Endpoint))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// applyFlags lets command line values win over the config file.
func applyFlags(cfg *appconf.Config, port int, env, apiKeys, endpoint string, rateLimit int) {
	if port > 0 {
		cfg.Port = port
	}
	if env != "" {
		cfg.EnvName = env
		cfg.Env = appconf.EnvFlagToEnvironment(env)
	}
	if apiKeys != "" {
		keys := strings.Split(apiKeys, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.ApiKeys = keys
	}
	if endpoint != "" {
		cfg.Geofox.Endpoint = endpoint
	}
	if rateLimit >= 0 {
		cfg.RateLimit = rateLimit
	}
}
