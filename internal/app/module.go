package app

import (
	"log/slog"

	"github.com/shandysiswandi/gotabular/internal/tabular"
)

func (a *App) initModules() error {
	if !a.config.GetBool("modules.tabular.enabled") {
		slog.Warn("tabular module disabled; only health endpoints are served")
		return nil
	}

	stop, err := tabular.New(tabular.Dependency{
		Config:    a.config,
		Router:    a.router,
		Goroutine: a.goroutine,
		Context:   a.ctx,
		ID:        a.uuid,
		EventID:   a.snowflake,
	})
	if err != nil {
		return err
	}
	a.onClose("tabular", stop)

	return nil
}
