package engine

import (
	"context"
	"sort"

	"callsheet/internal/model"
)

// RosterFor returns the contacts visible on a date, with the response
// already logged for that date when there is one. Contacts handled that
// day sort first; the rest keep first-added order.
func (e *Engine) RosterFor(ctx context.Context, date model.Day) ([]model.RosterItem, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, e.observe(err)
	}
	return rosterItems(snap, date), nil
}

type rosterRow struct {
	item     model.RosterItem
	hasToday bool
	order    int64
}

func rosterItems(snap *model.Snapshot, date model.Day) []model.RosterItem {
	var rows []rosterRow
	for _, c := range snap.Contacts {
		entries := snap.Entries[c.ID]
		events := snap.Responses[c.ID]
		today := latestOnDate(events, date)
		if !appearsOn(entries, events, today != nil, date) {
			continue
		}
		row := rosterRow{
			item:     model.RosterItem{Name: c.Name},
			hasToday: today != nil,
			order:    c.ID,
		}
		if today != nil {
			k := today.Kind
			row.item.LatestKind = &k
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].hasToday != rows[j].hasToday {
			return rows[i].hasToday
		}
		return rows[i].order < rows[j].order
	})
	items := make([]model.RosterItem, len(rows))
	for i, r := range rows {
		items[i] = r.item
	}
	return items
}

// appearsOn applies the per-contact state machine. A contact shows on a
// date when it was explicitly added that day, when a response was logged
// for it that day, or when its state carried in from an earlier
// appearance: pending (no response since its last add) and follow-up
// (last response DNP) both reappear every day until resolved; A/B/C/NA
// resolve the contact off the list.
func appearsOn(entries []model.Day, events []model.ResponseEvent, respondedToday bool, date model.Day) bool {
	if containsDay(entries, date) {
		return true
	}
	if respondedToday {
		return true
	}
	anchor, ok := latestEntryBefore(entries, date)
	if !ok {
		return false
	}
	last := latestEventInWindow(events, anchor, date)
	if last == nil {
		return true
	}
	return last.Kind == model.KindDNP
}

func containsDay(days []model.Day, d model.Day) bool {
	for _, x := range days {
		if x.Equal(d) {
			return true
		}
	}
	return false
}

// latestEntryBefore returns the newest explicit appearance strictly
// before date. entries are sorted ascending.
func latestEntryBefore(entries []model.Day, date model.Day) (model.Day, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Before(date) {
			return entries[i], true
		}
	}
	return model.Day{}, false
}

// latestEventInWindow picks the governing event among those dated in
// [from, before): the one for the most recent day, breaking ties by
// creation order so corrections win.
func latestEventInWindow(events []model.ResponseEvent, from, before model.Day) *model.ResponseEvent {
	var best *model.ResponseEvent
	for i := range events {
		ev := &events[i]
		if ev.Date.Before(from) || !ev.Date.Before(before) {
			continue
		}
		if best == nil || best.Date.Before(ev.Date) || (best.Date.Equal(ev.Date) && best.ID < ev.ID) {
			best = ev
		}
	}
	return best
}

// latestOnDate returns the most recently created event for the date, or
// nil when none was logged.
func latestOnDate(events []model.ResponseEvent, date model.Day) *model.ResponseEvent {
	var best *model.ResponseEvent
	for i := range events {
		ev := &events[i]
		if !ev.Date.Equal(date) {
			continue
		}
		if best == nil || best.ID < ev.ID {
			best = ev
		}
	}
	return best
}
