package agenda

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"feedcal/internal/caltime"
	"feedcal/internal/feed"
	appLog "feedcal/internal/log"
	"feedcal/internal/model"
)

// Fetcher is the part of feed.Fetcher the refresher needs.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []feed.Source) ([]feed.FetchResult, []error)
}

// Options configures a Refresher.
type Options struct {
	Sources      []feed.Source
	Location     *time.Location
	HorizonDays  int
	BackfillDays int
	// Spec is a standard 5-field cron expression.
	Spec string
	// Clock defaults to caltime.SystemClock.
	Clock caltime.Clock
}

// Snapshot is the result of the latest refresh.
type Snapshot struct {
	Schedules   []model.Schedule
	RefreshedAt time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Truncated   []string
	FailedFeeds int
}

// Refresher keeps an in-memory copy of all team schedules inside the
// configured window and re-fetches the feeds on a cron schedule.
type Refresher struct {
	opts    Options
	fetcher Fetcher

	mu   sync.RWMutex
	snap Snapshot

	cron *cron.Cron
}

func NewRefresher(opts Options, fetcher Fetcher) *Refresher {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = caltime.SystemClock{}
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = 7
	}
	if opts.BackfillDays < 0 {
		opts.BackfillDays = 0
	}
	return &Refresher{opts: opts, fetcher: fetcher}
}

// Refresh runs one fetch → parse → expand cycle and swaps the snapshot.
// Feeds that fail to download or parse are skipped; the cycle only fails
// when every feed failed.
func (r *Refresher) Refresh(ctx context.Context) error {
	now := r.opts.Clock.Now().In(r.opts.Location)
	start := now.AddDate(0, 0, -r.opts.BackfillDays)
	end := now.AddDate(0, 0, r.opts.HorizonDays)

	results, errs := r.fetcher.FetchAll(ctx, r.opts.Sources)
	failed := len(errs)

	events := make([]feed.Event, 0)
	for _, res := range results {
		evs, err := feed.Parse(res.Source, res.Body)
		if err != nil {
			appLog.Error("agenda: parse failed", err, "id", res.Source.ID)
			errs = append(errs, err)
			failed++
			continue
		}
		events = append(events, evs...)
	}

	if len(r.opts.Sources) > 0 && failed == len(r.opts.Sources) {
		return fmt.Errorf("agenda: all %d feeds failed: %w", failed, errors.Join(errs...))
	}

	expanded, err := feed.Expand(events, feed.Window{
		Location: r.opts.Location,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return fmt.Errorf("agenda: expand: %w", err)
	}

	r.mu.Lock()
	r.snap = Snapshot{
		Schedules:   expanded.Schedules,
		RefreshedAt: now,
		WindowStart: start,
		WindowEnd:   end,
		Truncated:   expanded.Truncated,
		FailedFeeds: failed,
	}
	r.mu.Unlock()

	appLog.Info("agenda refreshed",
		"schedules", len(expanded.Schedules),
		"feeds", len(r.opts.Sources),
		"failed", failed,
		"window_start", start.Format(time.RFC3339),
		"window_end", end.Format(time.RFC3339),
	)
	return nil
}

// Snapshot returns the latest refresh result.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Entries annotates the latest schedules as seen at now.
func (r *Refresher) Entries(now time.Time) []Entry {
	return Annotate(r.Snapshot().Schedules, now.In(r.opts.Location))
}

// Start schedules Refresh on opts.Spec. The jobs use ctx; Stop ends them.
// Starting a running Refresher is an error.
func (r *Refresher) Start(ctx context.Context) error {
	if r.cron != nil {
		return errors.New("agenda: refresher already started")
	}
	c := cron.New(cron.WithLocation(r.opts.Location))
	_, err := c.AddFunc(r.opts.Spec, func() {
		if err := r.Refresh(ctx); err != nil {
			appLog.Error("agenda: scheduled refresh failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("agenda: cron spec %q: %w", r.opts.Spec, err)
	}
	r.cron = c
	c.Start()
	appLog.Info("agenda refresher started", "spec", r.opts.Spec, "timezone", r.opts.Location.String())
	return nil
}

// Stop halts the cron scheduler and waits for a running refresh.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.cron = nil
}
