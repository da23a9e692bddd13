package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

// Notifier delivers a quality alert to whoever reports on data quality.
type Notifier interface {
	Notify(ctx context.Context, event entity.QualityAlertEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// QualityAlertConsumer drains the bus with a pool of workers. Failed
// deliveries are retried with exponential backoff; an event ID is delivered
// at most once.
type QualityAlertConsumer struct {
	bus         *Bus
	notifier    Notifier
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewQualityAlertConsumer(bus *Bus, notifier Notifier, cfg ConsumerConfig) *QualityAlertConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &QualityAlertConsumer{
		bus:         bus,
		notifier:    notifier,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

func (c *QualityAlertConsumer) Start() {
	for range c.workers {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued alerts to drain. When ctx ends
// first, pending retry backoffs are abandoned.
func (c *QualityAlertConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.stopOnce.Do(func() { close(c.stop) })
		<-done
		return ctx.Err()
	}
}

func (c *QualityAlertConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *QualityAlertConsumer) processEvent(event entity.QualityAlertEvent) {
	if c.notifier == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate quality alert", "event_id", event.EventID, "upload_id", event.UploadID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.notifier.Notify(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to deliver quality alert after retries", "event_id", event.EventID, "upload_id", event.UploadID, "error", err)
			return
		}

		if !c.sleepBackoff(backoff) {
			slog.Warn("quality alert abandoned on shutdown", "event_id", event.EventID, "upload_id", event.UploadID)
			return
		}
		backoff *= 2
	}
}

func (c *QualityAlertConsumer) sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}

// LogNotifier reports alerts through the application logger.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event entity.QualityAlertEvent) error {
	if event.EventID == 0 {
		return errors.New("missing event id")
	}

	slog.WarnContext(ctx, "low data quality",
		"event_id", event.EventID,
		"upload_id", event.UploadID,
		"filename", event.Filename,
		"score", event.Score,
		"issues", event.Issues,
	)
	return nil
}
