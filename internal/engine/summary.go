package engine

import (
	"context"
	"sort"
	"strings"

	"callsheet/internal/model"
)

// Summary projects every contact ever created with its latest response
// kind, DNP count, and whether it was ever attempted. Attempted contacts
// come first, most recently called leading; un-attempted contacts follow
// in name order. The order is deterministic for a given store state.
func (e *Engine) Summary(ctx context.Context) ([]model.SummaryRow, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, e.observe(err)
	}
	return summaryRows(snap), nil
}

// SummaryFiltered keeps only rows whose latest kind is accepted by the
// filter. Filter.Unattempted admits contacts with no events at all.
func (e *Engine) SummaryFiltered(ctx context.Context, f model.Filter) ([]model.SummaryRow, error) {
	rows, err := e.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, row := range rows {
		if f.Matches(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// BulkAddToToday re-adds every contact matching the filter onto the given
// day's list, with the same semantics as an explicit add. Contacts
// already on that day are skipped, not errors.
func (e *Engine) BulkAddToToday(ctx context.Context, f model.Filter, date model.Day) (added, skipped []string, err error) {
	rows, err := e.SummaryFiltered(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		_, ok, err := e.store.EnsureContact(ctx, row.Name, date, e.now())
		if err != nil {
			return nil, nil, e.observe(err)
		}
		if ok {
			added = append(added, row.Name)
		} else {
			skipped = append(skipped, row.Name)
		}
	}
	e.m.BulkReadds.Add(float64(len(added)))
	if len(added) > 0 {
		e.log.Info().Int("added", len(added)).Int("skipped", len(skipped)).Str("date", date.String()).Msg("bulk re-add")
	}
	return added, skipped, nil
}

func summaryRows(snap *model.Snapshot) []model.SummaryRow {
	rows := make([]model.SummaryRow, 0, len(snap.Contacts))
	for _, c := range snap.Contacts {
		row := model.SummaryRow{Name: c.Name}
		var latest *model.ResponseEvent
		for i := range snap.Responses[c.ID] {
			ev := &snap.Responses[c.ID][i]
			if ev.Kind == model.KindDNP {
				row.DNPCount++
			}
			if latest == nil || latest.Date.Before(ev.Date) || (latest.Date.Equal(ev.Date) && latest.ID < ev.ID) {
				latest = ev
			}
		}
		if latest != nil {
			k := latest.Kind
			d := latest.Date
			row.LatestKind = &k
			row.LastDate = &d
			row.EverAttempted = true
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.EverAttempted != b.EverAttempted {
			return a.EverAttempted
		}
		if a.EverAttempted && !a.LastDate.Equal(*b.LastDate) {
			return b.LastDate.Before(*a.LastDate)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return rows
}
