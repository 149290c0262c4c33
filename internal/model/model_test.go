package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-10")
	require.NoError(t, err)
	require.Equal(t, "2024-01-10", d.String())

	for _, bad := range []string{"", "2024-13-01", "10/01/2024", "2024-01-10T12:00:00Z"} {
		_, err := ParseDay(bad)
		require.ErrorIs(t, err, ErrInvalidRequest, "input %q", bad)
	}
}

func TestDayOrderingIgnoresTimeOfDay(t *testing.T) {
	late := NewDay(time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC))
	early := NewDay(time.Date(2024, 1, 10, 0, 1, 0, 0, time.UTC))
	require.True(t, late.Equal(early))

	next := early.Next()
	require.Equal(t, "2024-01-11", next.String())
	require.True(t, early.Before(next))
	require.True(t, next.After(early))
	require.Equal(t, early, next.Prev())
}

func TestDayJSONRoundTrip(t *testing.T) {
	d, err := ParseDay("2024-02-29")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-02-29"`, string(b))

	var back Day
	require.NoError(t, json.Unmarshal(b, &back))
	require.True(t, d.Equal(back))

	require.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &back))
}

func TestMonthDays(t *testing.T) {
	require.Len(t, MonthDays(2024, time.February), 29)
	require.Len(t, MonthDays(2023, time.February), 28)
	days := MonthDays(2024, time.December)
	require.Len(t, days, 31)
	require.Equal(t, "2024-12-01", days[0].String())
	require.Equal(t, "2024-12-31", days[30].String())
	require.Nil(t, MonthDays(2024, time.Month(0)))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" dnp ")
	require.NoError(t, err)
	require.Equal(t, KindDNP, k)

	k, err = ParseKind("a")
	require.NoError(t, err)
	require.Equal(t, KindA, k)

	_, err = ParseKind("Z")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = ParseKind("")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestKindSuccessful(t *testing.T) {
	require.True(t, KindA.Successful())
	require.True(t, KindB.Successful())
	require.True(t, KindC.Successful())
	require.False(t, KindNA.Successful())
	require.False(t, KindDNP.Successful())
}

func TestFilterMatches(t *testing.T) {
	a := KindA
	attempted := SummaryRow{Name: "x", LatestKind: &a, EverAttempted: true}
	fresh := SummaryRow{Name: "y"}

	require.True(t, Filter{}.Matches(attempted))
	require.True(t, Filter{}.Matches(fresh))

	f := Filter{Kinds: []Kind{KindA}}
	require.True(t, f.Matches(attempted))
	require.False(t, f.Matches(fresh))

	f = Filter{Unattempted: true}
	require.False(t, f.Matches(attempted))
	require.True(t, f.Matches(fresh))
}
