package sim

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/pairs/journal"
	"github.com/rustyeddy/pairs/market"
)

// Params drives one simulation run.
type Params struct {
	Entry    float64   // g: |return spread| above this opens (or flips) a pair
	Exit     float64   // j: |return spread| below this flattens an open pair
	Stop     *float64  // s: stop-loss fraction of gross entry cash, nil disables
	Lookback int       // M: trailing return window in rows
	Cost     float64   // zeta: proportional trading cost per pair evaluation
	Start    time.Time // activation date; no trades before it
}

// Engine replays a pair series day by day and turns the return-spread rule
// into a trade ledger. It owns exactly one long leg and one short leg for
// the whole run; together they form the spread pair.
type Engine struct {
	series *market.Series
	params Params
	log    *zap.SugaredLogger

	ledger *journal.Log
	short  *Position
	long   *Position
	cool   time.Time // stop-loss cool-down end date, zero when inactive
}

// NewEngine builds an engine for one series. logger may be nil for a quiet
// run; diagnostics never affect the computed ledger.
func NewEngine(series *market.Series, params Params, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{
		series: series,
		params: params,
		log:    logger,
	}
}

// Run executes the simulation and returns the trade ledger. Each call
// starts from a flat book, so re-running with the same inputs reproduces
// the same ledger exactly.
//
// Per-day priority order: activation warm-up, stop-loss cool-down,
// stop-loss evaluation, then the entry/exit/flip decision on the return
// spread. Any open pair left at the end of the series is force-closed at
// the last observed prices.
func (e *Engine) Run() (*journal.Log, error) {
	if e.series == nil || e.series.Len() == 0 {
		return nil, fmt.Errorf("sim: empty series")
	}
	if e.params.Lookback <= 0 {
		return nil, fmt.Errorf("sim: lookback must be positive, got %d", e.params.Lookback)
	}

	short, err := NewPosition(Short, e.series.Pair)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	long, err := NewPosition(Long, e.series.Pair)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	e.short, e.long = short, long
	e.ledger = &journal.Log{}
	e.cool = time.Time{}

	e.log.Infow("simulation start",
		"pair", e.series.Pair.String(),
		"entry", e.params.Entry,
		"exit", e.params.Exit,
		"stop", e.params.Stop,
		"lookback", e.params.Lookback,
		"cost", e.params.Cost,
		"activation", e.params.Start.Format("2006-01-02"),
	)

	for i := range e.series.Rows {
		if err := e.step(i); err != nil {
			return nil, err
		}
	}

	// Period ended; flatten whatever is left at the last observed prices.
	if e.short.IsOpen() || e.long.IsOpen() {
		last := e.series.Rows[e.series.Len()-1]
		pnl, err := ClosePair(e.ledger, e.short, e.long, last.Date, last.Price1, last.Price2, e.params.Cost, journal.ReasonStandard)
		if err != nil {
			return nil, fmt.Errorf("sim: end of series: %w", err)
		}
		e.log.Infow("end of series close", "date", last.Date.Format("2006-01-02"), "pnl", pnl)
	}

	e.log.Infow("simulation done",
		"ledger_rows", e.ledger.Len(),
		"cumulative_pnl", e.ledger.CumulativePNL(),
	)
	return e.ledger, nil
}

func (e *Engine) step(i int) error {
	row := e.series.Rows[i]
	date := row.Date
	day := date.Format("2006-01-02")

	if date.Before(e.params.Start) {
		return nil
	}

	if !e.cool.IsZero() {
		if date.Before(e.cool) {
			return nil
		}
		e.log.Debugw("cool-down over", "date", day)
		e.cool = time.Time{}
	}

	p1, p2 := row.Price1, row.Price2
	entryCash := row.Notional / 100

	e.log.Debugw("day", "date", day, "price1", p1, "price2", p2, "notional", row.Notional)

	// Stop-loss evaluation comes before any signal logic.
	if e.short.IsOpen() && e.long.IsOpen() {
		triggered, _, err := PairPNL(e.short, e.long, p1, p2, e.params.Cost, e.params.Stop)
		if err != nil {
			return fmt.Errorf("sim: %s: %w", day, err)
		}
		if triggered {
			e.cool = monthLater(date)
			pnl, err := ClosePair(e.ledger, e.short, e.long, date, p1, p2, e.params.Cost, journal.ReasonStopLoss)
			if err != nil {
				return fmt.Errorf("sim: %s: %w", day, err)
			}
			e.log.Infow("stop loss", "date", day, "pnl", pnl, "resume", e.cool.Format("2006-01-02"))
			return nil
		}
	}

	r1, r2, err := e.series.Returns(i, e.params.Lookback)
	if err != nil {
		return fmt.Errorf("sim: %s: %w", day, err)
	}
	z := r1 - r2
	e.log.Debugw("signal", "date", day, "return1", r1, "return2", r2, "z", z)

	switch {
	case math.Abs(z) > e.params.Entry:
		want := LongSpread
		if z > e.params.Entry {
			want = ShortSpread
		}
		return e.enter(row, want, entryCash)

	case math.Abs(z) < e.params.Exit && e.short.IsOpen() && e.long.IsOpen():
		pnl, err := ClosePair(e.ledger, e.short, e.long, date, p1, p2, e.params.Cost, journal.ReasonStandard)
		if err != nil {
			return fmt.Errorf("sim: %s: %w", day, err)
		}
		e.log.Infow("flatten", "date", day, "pnl", pnl)
	}
	return nil
}

// enter handles a day whose signal demands a pair in direction want: open
// when flat, hold when already there, close-and-reopen the same day when
// pointing the other way.
func (e *Engine) enter(row market.Row, want SpreadDir, entryCash float64) error {
	date := row.Date
	day := date.Format("2006-01-02")

	if !e.short.IsOpen() && !e.long.IsOpen() {
		if err := OpenPair(e.ledger, e.short, e.long, want, date, entryCash, row.Price1, row.Price2); err != nil {
			return fmt.Errorf("sim: %s: %w", day, err)
		}
		e.log.Infow("open", "date", day, "direction", want, "entry_cash", entryCash)
		return nil
	}

	cur := LongSpread
	if e.short.Instrument() == e.series.Pair.First {
		cur = ShortSpread
	}
	if cur == want {
		e.log.Debugw("hold", "date", day, "direction", cur)
		return nil
	}

	// Same-day flip: close the old pair, reopen the other way at today's
	// prices.
	pnl, err := ClosePair(e.ledger, e.short, e.long, date, row.Price1, row.Price2, e.params.Cost, journal.ReasonStandard)
	if err != nil {
		return fmt.Errorf("sim: %s: %w", day, err)
	}
	if err := OpenPair(e.ledger, e.short, e.long, want, date, entryCash, row.Price1, row.Price2); err != nil {
		return fmt.Errorf("sim: %s: %w", day, err)
	}
	e.log.Infow("flip", "date", day, "from", cur, "to", want, "closed_pnl", pnl)
	return nil
}

// monthLater returns the date one calendar month ahead, clamped to the end
// of the target month (Jan 31 -> Feb 28) to match calendar-delta arithmetic
// rather than Go's AddDate normalization.
func monthLater(t time.Time) time.Time {
	y, m, d := t.Date()
	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d, 0, 0, 0, 0, t.Location())
}
