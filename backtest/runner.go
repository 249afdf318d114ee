package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/pairs/internal/id"
	"github.com/rustyeddy/pairs/journal"
	"github.com/rustyeddy/pairs/market"
	"github.com/rustyeddy/pairs/sim"
)

// Result summarizes one finished run.
type Result struct {
	RunID string
	Start time.Time // first date in the series
	End   time.Time // last date in the series

	Rows       int // ledger rows
	Trades     int // CLOSE rows
	Wins       int
	Losses     int
	StopLosses int

	TotalPNL float64
}

// Runner wires a series, simulation parameters and an optional persistent
// journal into one run.
type Runner struct {
	Series *market.Series
	Params sim.Params
	Logger *zap.SugaredLogger

	// Journal, when set, receives the run record and full ledger.
	Journal *journal.SQLite
}

// Run executes the simulation, summarizes the ledger and persists it when a
// journal is configured. The returned ledger is the same one the summary
// was computed from.
func (r *Runner) Run(ctx context.Context) (*journal.Log, Result, error) {
	_ = ctx // reserved for future cancellation checks

	if r.Series == nil || r.Series.Len() == 0 {
		return nil, Result{}, fmt.Errorf("backtest: Series is required")
	}

	engine := sim.NewEngine(r.Series, r.Params, r.Logger)
	ledger, err := engine.Run()
	if err != nil {
		return nil, Result{}, err
	}

	res := summarize(ledger)
	res.RunID = id.New()
	res.Start = r.Series.Rows[0].Date
	res.End = r.Series.Rows[r.Series.Len()-1].Date

	if r.Journal != nil {
		run := journal.Run{
			RunID:      res.RunID,
			Created:    time.Now().UTC(),
			Entry:      r.Params.Entry,
			Exit:       r.Params.Exit,
			StopLoss:   r.Params.Stop,
			Lookback:   r.Params.Lookback,
			Cost:       r.Params.Cost,
			Start:      r.Params.Start,
			LedgerRows: ledger.Len(),
			TotalPNL:   res.TotalPNL,
		}
		if err := r.Journal.RecordRun(run, ledger.Rows()); err != nil {
			return nil, Result{}, fmt.Errorf("backtest: persist run: %w", err)
		}
	}

	return ledger, res, nil
}

func summarize(ledger *journal.Log) Result {
	res := Result{Rows: ledger.Len()}

	for _, row := range ledger.Rows() {
		if row.Status != journal.StatusClose {
			continue
		}
		res.Trades++
		if row.Reason == journal.ReasonStopLoss {
			res.StopLosses++
		}
		if row.PNL == nil {
			continue
		}
		res.TotalPNL += *row.PNL
		if *row.PNL > 0 {
			res.Wins++
		} else if *row.PNL < 0 {
			res.Losses++
		}
	}
	return res
}
