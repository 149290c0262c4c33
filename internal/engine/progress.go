package engine

import (
	"context"
	"fmt"
	"time"

	"callsheet/internal/model"
)

// Progress reports a date against its target. attempted counts contacts
// whose governing response that day is A, B, or C; NA and DNP never count
// toward the target.
func (e *Engine) Progress(ctx context.Context, date model.Day) (model.Progress, error) {
	target, ok, err := e.store.GetTarget(ctx, date)
	if err != nil {
		return model.Progress{}, e.observe(err)
	}
	events, err := e.store.ListResponsesOnDate(ctx, date)
	if err != nil {
		return model.Progress{}, e.observe(err)
	}
	return progressFrom(target, ok, events), nil
}

func progressFrom(target int, hasTarget bool, events []model.ResponseEvent) model.Progress {
	// Governing event per contact: corrections must not double count.
	latest := make(map[string]model.ResponseEvent)
	for _, ev := range events {
		if prev, seen := latest[ev.Name]; !seen || prev.ID < ev.ID {
			latest[ev.Name] = ev
		}
	}

	p := model.Progress{Tally: make(map[model.Kind]int, len(model.Kinds))}
	for _, k := range model.Kinds {
		p.Tally[k] = 0
	}
	for _, ev := range latest {
		p.Tally[ev.Kind]++
		p.Total++
		if ev.Kind.Successful() {
			p.Attempted++
		}
	}
	if hasTarget {
		t := target
		p.Target = &t
		p.Achieved = p.Attempted >= t
	}
	return p
}

// Calendar folds Progress over every day of a month for the achievement
// view.
func (e *Engine) Calendar(ctx context.Context, year int, month time.Month) ([]model.CalendarDay, error) {
	days := model.MonthDays(year, month)
	if days == nil {
		return nil, fmt.Errorf("%w: bad month %d-%d", model.ErrInvalidRequest, year, month)
	}
	out := make([]model.CalendarDay, 0, len(days))
	for _, d := range days {
		p, err := e.Progress(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CalendarDay{Date: d, Achieved: p.Achieved})
	}
	return out, nil
}
