package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
)

// ServiceName labels logs and the root endpoint.
const ServiceName = "gotabular"

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	configPath string
	config     pkgconfig.Config

	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	router     *pkgrouter.Router
	httpServer *http.Server

	// run in reverse registration order by Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New builds the application. An empty configPath resolves the config file
// from the environment (see ConfigPath). On failure everything registered so
// far is closed before the error is returned.
func New(configPath string) (*App, error) {
	pkglog.InitLogging(ServiceName, "info")

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, configPath: configPath}

	steps := []struct {
		name string
		run  func() error
	}{
		{"config", a.initConfig},
		{"libraries", a.initLibraries},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			cancel()
			a.runClosers(context.Background())
			return nil, fmt.Errorf("init %s: %w", step.name, err)
		}
	}

	return a, nil
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
