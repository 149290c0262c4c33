package engine

import (
	"context"
	"sort"

	"callsheet/internal/model"
)

// Record appends a response event for a contact on a date, creating the
// contact first when it does not exist yet. Events are immutable; a
// correction is another Record call for the same day.
func (e *Engine) Record(ctx context.Context, name string, kind model.Kind, date model.Day) (*model.ResponseEvent, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if _, err := model.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	now := e.now()
	if _, _, err := e.store.EnsureContact(ctx, name, date, now); err != nil {
		return nil, e.observe(err)
	}
	ev, err := e.store.AppendResponse(ctx, name, kind, date, now)
	if err != nil {
		return nil, e.observe(err)
	}
	e.m.ResponsesRecorded.WithLabelValues(string(kind)).Inc()
	e.log.Debug().Str("name", name).Str("kind", string(kind)).Str("date", date.String()).Msg("response recorded")
	return ev, nil
}

// LatestResponse returns the governing response for a contact on a date,
// reporting absence via ok.
func (e *Engine) LatestResponse(ctx context.Context, name string, date model.Day) (kind model.Kind, ok bool, err error) {
	name, err = cleanName(name)
	if err != nil {
		return "", false, err
	}
	events, err := e.store.ListResponses(ctx, name)
	if err != nil {
		return "", false, e.observe(err)
	}
	if ev := latestOnDate(events, date); ev != nil {
		return ev.Kind, true, nil
	}
	return "", false, nil
}

// DNPCount counts a contact's DNP events across all history. The count
// only ever grows: events are never edited or deleted.
func (e *Engine) DNPCount(ctx context.Context, name string) (int, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	events, err := e.store.ListResponses(ctx, name)
	if err != nil {
		return 0, e.observe(err)
	}
	n := 0
	for _, ev := range events {
		if ev.Kind == model.KindDNP {
			n++
		}
	}
	return n, nil
}

// History returns a contact's full event log, most recent day first.
func (e *Engine) History(ctx context.Context, name string) ([]model.ResponseEvent, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	events, err := e.store.ListResponses(ctx, name)
	if err != nil {
		return nil, e.observe(err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[j].Date.Before(events[i].Date)
		}
		return events[j].ID < events[i].ID
	})
	return events, nil
}
