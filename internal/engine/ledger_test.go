package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"callsheet/internal/model"
)

func TestRecordCreatesContactImplicitly(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	d := day(t, "2024-01-10")

	ev, err := e.Record(ctx, "Grace", model.KindA, d)
	require.NoError(t, err)
	require.Equal(t, "Grace", ev.Name)
	require.Equal(t, model.KindA, ev.Kind)

	items, err := e.RosterFor(ctx, d)
	require.NoError(t, err)
	require.Equal(t, []string{"Grace"}, names(items))
}

func TestRecordRejectsBadInput(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	d := day(t, "2024-01-10")

	_, err := e.Record(ctx, "", model.KindA, d)
	require.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = e.Record(ctx, "Grace", model.Kind("X"), d)
	require.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestLatestResponsePrefersNewestEvent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	d := day(t, "2024-01-10")

	_, err := e.Record(ctx, "Henry", model.KindDNP, d)
	require.NoError(t, err)
	_, err = e.Record(ctx, "Henry", model.KindC, d)
	require.NoError(t, err)

	kind, ok, err := e.LatestResponse(ctx, "Henry", d)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.KindC, kind)

	_, ok, err = e.LatestResponse(ctx, "Henry", d.Next())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDNPCountAcrossHistory(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	prev := 0
	days := []string{"2024-01-10", "2024-01-11", "2024-01-12"}
	for _, s := range days {
		_, err := e.Record(ctx, "Ivy", model.KindDNP, day(t, s))
		require.NoError(t, err)

		n, err := e.DNPCount(ctx, "Ivy")
		require.NoError(t, err)
		require.Greater(t, n, prev, "count must be monotone")
		prev = n
	}
	require.Equal(t, 3, prev)

	// A later resolution does not shrink the count.
	_, err := e.Record(ctx, "Ivy", model.KindA, day(t, "2024-01-13"))
	require.NoError(t, err)
	n, err := e.DNPCount(ctx, "Ivy")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestHistoryNewestDayFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Record(ctx, "Jack", model.KindNA, day(t, "2024-01-10"))
	require.NoError(t, err)
	_, err = e.Record(ctx, "Jack", model.KindA, day(t, "2024-01-12"))
	require.NoError(t, err)
	_, err = e.Record(ctx, "Jack", model.KindB, day(t, "2024-01-11"))
	require.NoError(t, err)

	events, err := e.History(ctx, "Jack")
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "2024-01-12", events[0].Date.String())
	require.Equal(t, "2024-01-11", events[1].Date.String())
	require.Equal(t, "2024-01-10", events[2].Date.String())
}

func TestHistoryUnknownContact(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.History(context.Background(), "nobody")
	require.ErrorIs(t, err, model.ErrNotFound)
}
