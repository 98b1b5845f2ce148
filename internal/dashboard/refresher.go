// Package dashboard keeps the post-login statistics panel up to date. Stats are
// fetched off the dispatcher and applied on it.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hongminglow/backoffice/internal/dispatch"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/models"
)

// StatsSource produces the headline numbers.
type StatsSource interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// View is the displayed state of the panel.
type View struct {
	Stats     models.DashboardStats `json:"stats"`
	Revenue   string                `json:"revenue"`
	UpdatedAt time.Time             `json:"updated_at"`
	Error     string                `json:"error,omitempty"`
	Loading   bool                  `json:"loading"`
}

// Refresher owns a View that is read and written only on the dispatch loop.
type Refresher struct {
	source   StatsSource
	loop     *dispatch.Loop
	log      *logging.Logger
	currency string
	now      func() time.Time

	issued   atomic.Uint64
	inflight sync.WaitGroup

	// loop-owned
	view    View
	applied uint64
}

// NewRefresher wires a refresher; currency labels the revenue figure.
func NewRefresher(source StatsSource, loop *dispatch.Loop, currency string, log *logging.Logger) *Refresher {
	return &Refresher{
		source:   source,
		loop:     loop,
		log:      log.With("component", "dashboard"),
		currency: currency,
		now:      time.Now,
	}
}

// Refresh starts a fetch in the background. Results land on the loop; a
// result older than one already shown is dropped.
func (r *Refresher) Refresh(ctx context.Context) {
	seq := r.issued.Add(1)
	r.loop.Post(func() { r.view.Loading = true })

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		stats, err := r.source.DashboardStats(ctx)
		at := r.now()
		if err != nil {
			r.log.Warn("dashboard refresh failed", "error", err)
		}
		r.loop.Post(func() { r.apply(seq, stats, err, at) })
	}()
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.Refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Snapshot copies the displayed view.
func (r *Refresher) Snapshot(ctx context.Context) (View, error) {
	var view View
	err := r.loop.Do(ctx, func() { view = r.view })
	return view, err
}

// Wait blocks until every started fetch has posted its result.
func (r *Refresher) Wait() {
	r.inflight.Wait()
}

// apply runs on the dispatch loop. A failed fetch keeps the last good numbers.
func (r *Refresher) apply(seq uint64, stats models.DashboardStats, err error, at time.Time) {
	if seq <= r.applied {
		r.log.Debug("stale dashboard result dropped", "seq", seq, "applied", r.applied)
		return
	}
	r.applied = seq
	r.view.Loading = seq < r.issued.Load()
	if err != nil {
		r.view.Error = "Failed to load statistics"
		return
	}
	r.view.Stats = stats
	r.view.Revenue = FormatRevenue(r.currency, stats.TodayRevenue)
	r.view.UpdatedAt = at
	r.view.Error = ""
}

// FormatRevenue renders an amount with two decimals and the currency code.
func FormatRevenue(currency string, amount float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}
