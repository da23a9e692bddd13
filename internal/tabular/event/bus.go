package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus is an in-process, buffered queue of quality alerts.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.QualityAlertEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.QualityAlertEvent, buffer),
	}
}

// Publish blocks while the buffer is full, until ctx ends.
func (b *Bus) Publish(ctx context.Context, event entity.QualityAlertEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.QualityAlertEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
