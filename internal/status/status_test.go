package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func probe(detail string, err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return detail, err }
}

func TestSummaryAggregatesStates(t *testing.T) {
	c := NewChecker(
		Check{Name: "catalog", Probe: probe("9 recipes", nil)},
		Check{Name: "journal", Optional: true, Probe: probe("", errors.New("disk full"))},
	)
	s := c.Summary(context.Background())
	require.Equal(t, StateDegraded, s.State)
	require.Equal(t, []Component{
		{Name: "catalog", Status: StateOK, Detail: "9 recipes"},
		{Name: "journal", Status: StateDegraded, Detail: "disk full"},
	}, s.Components)

	c = NewChecker(Check{Name: "catalog", Probe: probe("", errors.New("empty"))})
	require.Equal(t, StateDown, c.Summary(context.Background()).State)
}

func TestSummaryIsCached(t *testing.T) {
	calls := 0
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewChecker(Check{Name: "x", Probe: func(context.Context) (string, error) {
		calls++
		return "", nil
	}})
	c.now = func() time.Time { return now }

	c.Summary(context.Background())
	c.Summary(context.Background())
	require.Equal(t, 1, calls)

	now = now.Add(10 * time.Second)
	c.Summary(context.Background())
	require.Equal(t, 2, calls)

	c.SetCacheTTL(0)
	c.Summary(context.Background())
	c.Summary(context.Background())
	require.Equal(t, 4, calls)
}
