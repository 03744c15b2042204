package offline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/andrewpaige1/flashlearn/logger"
)

// SyncTag is the only sync tag the background job answers to.
const SyncTag = "background-sync"

var ErrUnknownTag = errors.New("offline: unknown sync tag")

// BackgroundSync drains the queue on a fixed interval and on demand.
type BackgroundSync struct {
	scheduler *gocron.Scheduler
	queue     *Queue
	interval  time.Duration
	log       *logger.Logger
}

func NewBackgroundSync(queue *Queue, interval time.Duration, log *logger.Logger) *BackgroundSync {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &BackgroundSync{
		scheduler: s,
		queue:     queue,
		interval:  interval,
		log:       log.With("service", "BackgroundSync"),
	}
}

// Start schedules the periodic drain and returns without blocking.
func (b *BackgroundSync) Start() error {
	if b.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", b.interval)
	}
	if _, err := b.scheduler.Every(b.interval).Tag(SyncTag).Do(b.run); err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	b.scheduler.StartAsync()
	b.log.Info("background sync started", "interval", b.interval.String())
	return nil
}

func (b *BackgroundSync) Stop() {
	b.scheduler.Stop()
}

// Trigger runs a sync immediately for tag.
func (b *BackgroundSync) Trigger(ctx context.Context, tag string) (Report, error) {
	if tag != SyncTag {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return b.queue.Process(ctx)
}

func (b *BackgroundSync) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := b.queue.Process(ctx)
	if err != nil {
		b.log.Error("background sync failed", "error", err)
		return
	}
	if report != (Report{}) {
		b.log.Info("background sync done",
			"processed", report.Processed,
			"failed", report.Failed,
			"unknown", report.Unknown,
		)
	}
}
