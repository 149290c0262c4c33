// Package model holds the domain types and sentinel errors shared by the
// store and the engine.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a logged call response.
type Kind string

const (
	KindA   Kind = "A"
	KindB   Kind = "B"
	KindC   Kind = "C"
	KindNA  Kind = "NA"
	KindDNP Kind = "DNP"
)

// Kinds lists every valid response kind.
var Kinds = []Kind{KindA, KindB, KindC, KindNA, KindDNP}

// ParseKind normalizes and validates a response kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindA, KindB, KindC, KindNA, KindDNP:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown response kind %q", ErrInvalidRequest, s)
}

// Successful reports whether the kind counts toward the daily target.
func (k Kind) Successful() bool {
	return k == KindA || k == KindB || k == KindC
}

// Contact is a single global identity keyed by name.
type Contact struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	OriginDate Day       `json:"origin_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// RosterEntry records an explicit appearance of a contact on a day: the
// initial add and any later re-adds from the summary view.
type RosterEntry struct {
	ContactID int64
	Date      Day
	CreatedAt time.Time
}

// ResponseEvent is an append-only log entry. Corrections are new events;
// the response for a day is the most recently created event for that
// (contact, day) pair.
type ResponseEvent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Date      Day       `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// RosterItem is one row of a day's call list.
type RosterItem struct {
	Name       string `json:"name"`
	LatestKind *Kind  `json:"latest_kind"`
}

// Progress summarizes a day against its target.
type Progress struct {
	Target    *int         `json:"target"`
	Attempted int          `json:"attempted"`
	Achieved  bool         `json:"achieved"`
	Tally     map[Kind]int `json:"tally"`
	Total     int          `json:"total"`
}

// CalendarDay marks whether a day's target was achieved.
type CalendarDay struct {
	Date     Day  `json:"date"`
	Achieved bool `json:"achieved"`
}

// SummaryRow is one contact in the cross-day summary view.
type SummaryRow struct {
	Name          string `json:"name"`
	LatestKind    *Kind  `json:"latest_kind"`
	LastDate      *Day   `json:"last_date"`
	DNPCount      int    `json:"dnp_count"`
	EverAttempted bool   `json:"ever_attempted"`
}

// Filter selects summary rows by latest response kind. Unattempted selects
// contacts with no response event at all.
type Filter struct {
	Kinds       []Kind `json:"kinds"`
	Unattempted bool   `json:"unattempted"`
}

// Matches applies the filter to a summary row. An empty filter matches
// everything.
func (f Filter) Matches(row SummaryRow) bool {
	if len(f.Kinds) == 0 && !f.Unattempted {
		return true
	}
	if !row.EverAttempted {
		return f.Unattempted
	}
	for _, k := range f.Kinds {
		if row.LatestKind != nil && *row.LatestKind == k {
			return true
		}
	}
	return false
}

// Snapshot is a consistent read of every record kind, taken in a single
// store transaction. The engine's derivations are pure functions over it.
type Snapshot struct {
	Contacts []Contact
	// Entries maps contact ID to its explicit appearance days, ascending.
	Entries map[int64][]Day
	// Responses maps contact ID to its events in creation order.
	Responses map[int64][]ResponseEvent
}
