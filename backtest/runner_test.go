package backtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pairs/journal"
	"github.com/rustyeddy/pairs/market"
	"github.com/rustyeddy/pairs/sim"
)

var testPair = market.Pair{First: "KXI", Second: "XLP"}

func day(d int) time.Time {
	return time.Date(2022, 1, d, 0, 0, 0, 0, time.UTC)
}

// flipSeries opens a short spread, flips it long, then hits the forced
// end-of-series close: 4 ledger rows, 2 of them CLOSE.
func flipSeries(t *testing.T) *market.Series {
	t.Helper()

	s, err := market.NewSeries(testPair, []market.Row{
		{Date: day(3), Price1: 100, Price2: 100, Notional: 10000},
		{Date: day(4), Price1: 110, Price2: 100, Notional: 10000},
		{Date: day(5), Price1: 110, Price2: 110, Notional: 10000},
	})
	require.NoError(t, err)
	return s
}

func testParams() sim.Params {
	return sim.Params{
		Entry:    0.05,
		Exit:     0.01,
		Lookback: 1,
		Start:    day(4),
	}
}

func TestRunnerSummary(t *testing.T) {
	t.Parallel()

	r := Runner{Series: flipSeries(t), Params: testParams()}
	ledger, res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, day(3), res.Start)
	assert.Equal(t, day(5), res.End)

	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, ledger.Len(), res.Rows)
	assert.Equal(t, 2, res.Trades)
	assert.Equal(t, 0, res.StopLosses)
	assert.Equal(t, res.Wins+res.Losses, countNonZeroCloses(ledger))
	assert.InDelta(t, ledger.CumulativePNL(), res.TotalPNL, 1e-9)
}

func countNonZeroCloses(l *journal.Log) int {
	n := 0
	for _, r := range l.Rows() {
		if r.Status == journal.StatusClose && r.PNL != nil && *r.PNL != 0 {
			n++
		}
	}
	return n
}

func TestRunnerPersistsToJournal(t *testing.T) {
	t.Parallel()

	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "runs.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	r := Runner{Series: flipSeries(t), Params: testParams(), Journal: j}
	ledger, res, err := r.Run(context.Background())
	require.NoError(t, err)

	run, err := j.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Len(), run.LedgerRows)
	assert.InDelta(t, res.TotalPNL, run.TotalPNL, 1e-9)

	rows, err := j.ListRows(res.RunID)
	require.NoError(t, err)
	assert.Len(t, rows, ledger.Len())
}

func TestRunnerRequiresSeries(t *testing.T) {
	t.Parallel()

	r := Runner{Params: testParams()}
	_, _, err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunnerDistinctRunIDs(t *testing.T) {
	t.Parallel()

	r := Runner{Series: flipSeries(t), Params: testParams()}
	_, first, err := r.Run(context.Background())
	require.NoError(t, err)
	_, second, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.InDelta(t, first.TotalPNL, second.TotalPNL, 1e-9)
}
