package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"callsheet/internal/model"
)

func seedSummary(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()

	// Pat: DNP then resolved later — latest kind is A.
	_, err := e.Record(ctx, "Pat", model.KindDNP, day(t, "2024-01-05"))
	require.NoError(t, err)
	_, err = e.Record(ctx, "Pat", model.KindA, day(t, "2024-01-06"))
	require.NoError(t, err)

	// Quinn: still DNP.
	_, err = e.Record(ctx, "Quinn", model.KindDNP, day(t, "2024-01-06"))
	require.NoError(t, err)

	// Ray: never attempted.
	require.NoError(t, e.AddContact(ctx, "Ray", day(t, "2024-01-04")))
}

func TestSummaryRows(t *testing.T) {
	e := newTestEngine(t)
	seedSummary(t, e)

	rows, err := e.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byName := make(map[string]model.SummaryRow, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}

	pat := byName["Pat"]
	require.True(t, pat.EverAttempted)
	require.Equal(t, model.KindA, *pat.LatestKind)
	require.Equal(t, 1, pat.DNPCount)

	quinn := byName["Quinn"]
	require.Equal(t, model.KindDNP, *quinn.LatestKind)
	require.Equal(t, 1, quinn.DNPCount)

	ray := byName["Ray"]
	require.False(t, ray.EverAttempted)
	require.Nil(t, ray.LatestKind)
	require.Equal(t, 0, ray.DNPCount)

	// Attempted first; un-attempted last.
	require.Equal(t, "Ray", rows[2].Name)
	// Pat and Quinn were both last called 2024-01-06: name order breaks the tie.
	require.Equal(t, "Pat", rows[0].Name)
	require.Equal(t, "Quinn", rows[1].Name)
}

func TestSummaryFilterLatestKindOnly(t *testing.T) {
	e := newTestEngine(t)
	seedSummary(t, e)

	rows, err := e.SummaryFiltered(context.Background(), model.Filter{Kinds: []model.Kind{model.KindDNP}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Pat had an earlier DNP but its latest kind is A, so only Quinn matches.
	require.Equal(t, "Quinn", rows[0].Name)
}

func TestSummaryFilterUnattempted(t *testing.T) {
	e := newTestEngine(t)
	seedSummary(t, e)

	rows, err := e.SummaryFiltered(context.Background(), model.Filter{Unattempted: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Ray", rows[0].Name)
}

func TestSummaryEmptyFilterMatchesAll(t *testing.T) {
	e := newTestEngine(t)
	seedSummary(t, e)

	rows, err := e.SummaryFiltered(context.Background(), model.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestBulkAddToToday(t *testing.T) {
	e := newTestEngine(t)
	seedSummary(t, e)
	ctx := context.Background()
	d := day(t, "2024-01-20")

	added, skipped, err := e.BulkAddToToday(ctx, model.Filter{Kinds: []model.Kind{model.KindDNP}, Unattempted: true}, d)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Quinn", "Ray"}, added)
	require.Empty(t, skipped)

	items, err := e.RosterFor(ctx, d)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Quinn", "Ray"}, names(items))

	// Re-running the same bulk add is a no-op.
	added, skipped, err = e.BulkAddToToday(ctx, model.Filter{Kinds: []model.Kind{model.KindDNP}, Unattempted: true}, d)
	require.NoError(t, err)
	require.Empty(t, added)
	require.ElementsMatch(t, []string{"Quinn", "Ray"}, skipped)
}
