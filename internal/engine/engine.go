// Package engine implements the daily roster carry-forward and progress
// rules: which contacts a day's call list shows, how logged responses
// change future visibility, and how target achievement is computed.
//
// All derivations are pure functions over store snapshots; roster
// membership is never persisted, only recomputed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"callsheet/internal/metrics"
	"callsheet/internal/model"
	"callsheet/internal/store"
)

type Engine struct {
	store *store.Store
	log   zerolog.Logger
	m     *metrics.Metrics
	now   func() time.Time
}

func New(st *store.Store, log zerolog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{store: st, log: log, m: m, now: time.Now}
}

// SetTarget creates or overwrites the target for a date.
func (e *Engine) SetTarget(ctx context.Context, date model.Day, target int) error {
	if target <= 0 {
		return fmt.Errorf("%w: target must be positive, got %d", model.ErrInvalidRequest, target)
	}
	if err := e.store.UpsertTarget(ctx, date, target); err != nil {
		return e.observe(err)
	}
	e.m.TargetsSet.Inc()
	e.log.Debug().Str("date", date.String()).Int("target", target).Msg("target set")
	return nil
}

// AddContact puts a contact on a day's list, creating the identity on
// first add. Adding a name already on that day's list is a no-op, not an
// error; the name keeps its single global identity either way.
func (e *Engine) AddContact(ctx context.Context, name string, date model.Day) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	_, added, err := e.store.EnsureContact(ctx, name, date, e.now())
	if err != nil {
		return e.observe(err)
	}
	if added {
		e.m.ContactsAdded.Inc()
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty contact name", model.ErrInvalidRequest)
	}
	return name, nil
}

// observe counts store-unavailable failures before passing the error on.
func (e *Engine) observe(err error) error {
	if errors.Is(err, model.ErrStoreUnavailable) {
		e.m.StoreTimeouts.Inc()
	}
	return err
}
