package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"callsheet/internal/metrics"
	"callsheet/internal/model"
	"callsheet/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	e := New(st, zerolog.Nop(), metrics.New(prometheus.NewRegistry()))
	// Deterministic, strictly increasing clock so event order is stable.
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return e
}

func day(t *testing.T, s string) model.Day {
	t.Helper()
	d, err := model.ParseDay(s)
	require.NoError(t, err)
	return d
}

func names(items []model.RosterItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSetTargetRejectsNonPositive(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	d := day(t, "2024-01-10")

	require.ErrorIs(t, e.SetTarget(ctx, d, 0), model.ErrInvalidRequest)
	require.ErrorIs(t, e.SetTarget(ctx, d, -3), model.ErrInvalidRequest)
	require.NoError(t, e.SetTarget(ctx, d, 5))
}

func TestAddContactRejectsEmptyName(t *testing.T) {
	e := newTestEngine(t)
	err := e.AddContact(context.Background(), "   ", day(t, "2024-01-10"))
	require.ErrorIs(t, err, model.ErrInvalidRequest)
}
