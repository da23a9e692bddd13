package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
)

// Defaults apply to keys missing from the config file.
func Defaults() map[string]any {
	return map[string]any{
		"tz":                          "UTC",
		"log.level":                   "info",
		"id.node":                     -1,
		"server.address.http":         ":8080",
		"server.cors.allowed_origins": []string{"*"},
		"modules.tabular.enabled":     true,
		"tabular.max_bytes":           5 << 20,
		"tabular.row_limit":           10000,
		"tabular.strict_quotes":       false,
		"tabular.max_goroutine":       100,
		"tabular.quality.alert_below": 60,
		"tabular.events.buffer":       512,
		"tabular.events.workers":      4,
		"tabular.events.max_retries":  3,
		"tabular.events.base_backoff": "200ms",
	}
}

// ConfigPath resolves the config file: CONFIG_PATH wins, LOCAL=true reads
// the repository copy, otherwise the container mount is used.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() error {
	path := a.configPath
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := pkgconfig.NewViper(path, Defaults())
	if err != nil {
		return err
	}
	a.config = cfg
	a.onClose("config", func(_ context.Context) error { return cfg.Close() })

	if tz := cfg.GetString("tz"); tz != "" {
		//nolint:errcheck,gosec // TZ is advisory
		os.Setenv("TZ", tz)
	}
	pkglog.InitLogging(ServiceName, cfg.GetString("log.level"))

	return nil
}

func (a *App) initLibraries() error {
	sf, err := pkguid.NewSnowflake(a.config.GetInt("id.node"))
	if err != nil {
		return err
	}

	a.snowflake = sf
	slog.Info("snowflake ready", "node", sf.Node())
	a.uuid = pkguid.NewUUID()
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("tabular.max_goroutine")))

	return nil
}

func (a *App) initHTTPServer() error {
	a.router = pkgrouter.NewRouter(a.uuid, ServiceName)

	c := cors.New(cors.Options{
		AllowedOrigins: a.config.GetStrings("server.cors.allowed_origins"),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID},
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           c.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}
