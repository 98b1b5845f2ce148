package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/backoffice/internal/dispatch"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/models"
)

type stubSource struct {
	mu    sync.Mutex
	stats models.DashboardStats
	err   error
	calls int
}

func (s *stubSource) DashboardStats(context.Context) (models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.stats, s.err
}

func (s *stubSource) set(stats models.DashboardStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats, s.err = stats, err
}

func newRefresher(t *testing.T, source StatsSource) *Refresher {
	t.Helper()
	loop := dispatch.NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})
	r := NewRefresher(source, loop, "USD", logging.Discard())
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestRefreshAppliesStats(t *testing.T) {
	source := &stubSource{stats: models.DashboardStats{TodayOrders: 12, TodayRevenue: 345.5, OccupiedTables: 4, LowStockItems: 2}}
	r := newRefresher(t, source)

	r.Refresh(context.Background())
	r.Wait()

	view, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, view.Stats.TodayOrders)
	assert.Equal(t, "USD 345.50", view.Revenue)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, 2024, view.UpdatedAt.Year())
}

func TestFailedRefreshKeepsLastStats(t *testing.T) {
	source := &stubSource{stats: models.DashboardStats{TodayOrders: 3}}
	r := newRefresher(t, source)

	r.Refresh(context.Background())
	r.Wait()

	source.set(models.DashboardStats{}, errors.New("db down"))
	r.Refresh(context.Background())
	r.Wait()

	view, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, view.Stats.TodayOrders)
	assert.NotEmpty(t, view.Error)
}

func TestRunStopsWithContext(t *testing.T) {
	source := &stubSource{}
	r := newRefresher(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// gatedSource holds its first fetch until release is closed.
type gatedSource struct {
	release chan struct{}
	calls   atomic.Int32
}

func (s *gatedSource) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	if s.calls.Add(1) == 1 {
		<-s.release
		return models.DashboardStats{TodayOrders: 1}, nil
	}
	return models.DashboardStats{TodayOrders: 2}, nil
}

func TestSlowEarlierRefreshDoesNotOverwriteNewer(t *testing.T) {
	source := &gatedSource{release: make(chan struct{})}
	r := newRefresher(t, source)
	ctx := context.Background()

	r.Refresh(ctx)
	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	r.Refresh(ctx)
	require.Eventually(t, func() bool {
		view, err := r.Snapshot(ctx)
		return err == nil && view.Stats.TodayOrders == 2
	}, time.Second, 5*time.Millisecond)

	view, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, view.Loading)

	close(source.release)
	r.Wait()

	view, err = r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Stats.TodayOrders)
	assert.False(t, view.Loading)
}

func TestFormatRevenue(t *testing.T) {
	assert.Equal(t, "EUR 10.00", FormatRevenue("EUR", 10))
	assert.Equal(t, "0.25", FormatRevenue("", 0.249))
}
