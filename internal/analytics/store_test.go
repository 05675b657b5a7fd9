package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/clock"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, start time.Time) (*Store, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(start)
	s, err := Open(":memory:", c, "pepper")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, c
}

func TestHashIP(t *testing.T) {
	s, _ := newTestStore(t, noon)
	h := s.HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("203.0.113.7"))
	assert.NotEqual(t, h, s.HashIP("203.0.113.8"))
	assert.NotContains(t, h, "203")
}

func TestRandomSaltDiffers(t *testing.T) {
	a, err := Open(":memory:", clock.Real(), "")
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(":memory:", clock.Real(), "")
	require.NoError(t, err)
	defer b.Close()
	assert.NotEqual(t, a.HashIP("1.2.3.4"), b.HashIP("1.2.3.4"))
}

func TestStats(t *testing.T) {
	s, c := newTestStore(t, noon.Add(-10*24*time.Hour))
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "curl", "/"))
	c.Advance(10 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "curl", "/projects"))
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.2", "firefox", "/"))

	require.NoError(t, s.RecordClick(ctx, "terminal-mail", "https://a.example"))
	require.NoError(t, s.RecordClick(ctx, "terminal-mail", "https://a.example"))
	require.NoError(t, s.RecordClick(ctx, "portfolio", "https://b.example"))

	stats, err := s.Stats(ctx, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 2, stats.VisitorsThisWeek)
	assert.EqualValues(t, 3, stats.TotalClicks)

	require.Len(t, stats.TopProjects, 2)
	assert.Equal(t, "terminal-mail", stats.TopProjects[0].Slug)
	assert.EqualValues(t, 2, stats.TopProjects[0].Clicks)

	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
	assert.Equal(t, "firefox", stats.RecentVisitors[0].UserAgent)
	assert.Equal(t, noon, stats.RecentVisitors[0].Timestamp)
}

func TestCleanup(t *testing.T) {
	s, c := newTestStore(t, noon)
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "", "/"))
	c.Advance(400 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "", "/"))

	n, err := s.Cleanup(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visits, err := s.RecentVisits(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}

func TestScheduleCleanup(t *testing.T) {
	s, _ := newTestStore(t, noon)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cron.New()

	_, err := ScheduleCleanup(c, "0 3 * * *", s, time.Hour, logger)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = ScheduleCleanup(c, "every tuesday", s, time.Hour, logger)
	assert.Error(t, err)
}

func TestShouldTrack(t *testing.T) {
	assert.True(t, ShouldTrack("/", ""))
	assert.True(t, ShouldTrack("/projects", "0"))
	assert.False(t, ShouldTrack("/", "1"))
	assert.False(t, ShouldTrack("/static/site.css", ""))
	assert.False(t, ShouldTrack("/admin/dashboard", ""))
	assert.False(t, ShouldTrack("/typed/stream", ""))
}
