package tabular

import (
	"context"

	"github.com/shandysiswandi/gotabular/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotabular/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotabular/internal/tabular/event"
	"github.com/shandysiswandi/gotabular/internal/tabular/inbound"
	"github.com/shandysiswandi/gotabular/internal/tabular/ingest"
	"github.com/shandysiswandi/gotabular/internal/tabular/store"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	EventID   pkguid.NumberID
}

// New wires the tabular ingestion module and returns its closer, which
// drains pending quality alerts.
func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config

	bus := event.NewBus(int(cfg.GetInt("tabular.events.buffer")))
	consumer := event.NewQualityAlertConsumer(bus, event.LogNotifier{}, event.ConsumerConfig{
		Workers:     int(cfg.GetInt("tabular.events.workers")),
		MaxRetries:  int(cfg.GetInt("tabular.events.max_retries")),
		BaseBackoff: cfg.GetDuration("tabular.events.base_backoff"),
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	if dep.EventID == nil {
		sf, err := pkguid.NewSnowflake(-1)
		if err != nil {
			_ = consumer.Stop(context.Background())
			return nil, err
		}
		dep.EventID = sf
	}

	quotes := ingest.QuoteLenient
	if cfg.GetBool("tabular.strict_quotes") {
		quotes = ingest.QuoteStrict
	}

	rowLimit := int(cfg.GetInt("tabular.row_limit"))
	maxBytes := cfg.GetInt("tabular.max_bytes")
	if maxBytes <= 0 {
		maxBytes = usecase.DefaultMaxBytes
	}

	uc := usecase.New(usecase.Dependency{
		Store:   store.NewInMemoryStore(),
		Events:  bus,
		Runner:  dep.Goroutine,
		Parser:  ingest.New(ingest.Config{Quotes: quotes, RowLimit: rowLimit}),
		ID:      dep.ID,
		EventID: dep.EventID,
		RootCtx: dep.Context,
		Config: usecase.Config{
			MaxBytes:   maxBytes,
			RowLimit:   rowLimit,
			AlertBelow: int(cfg.GetInt("tabular.quality.alert_below")),
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, maxBytes)

	return consumer.Stop, nil
}
