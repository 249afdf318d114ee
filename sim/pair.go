package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/pairs/journal"
)

// SpreadDir names the direction of the spread trade. A long spread is long
// the pair's first instrument and short the second; a short spread is the
// reverse.
type SpreadDir string

const (
	LongSpread  SpreadDir = "long"
	ShortSpread SpreadDir = "short"
)

// legPrices resolves which quoted price belongs to which leg. After a flip
// either instrument can sit on either leg, so the short leg's instrument
// decides.
func legPrices(short, long *Position, p1, p2 float64) (shortPx, longPx float64) {
	if short.Instrument() == short.pair.First {
		return p1, p2
	}
	return p2, p1
}

// PairPNL computes the combined pair P&L net of the proportional trading
// cost zeta and applies the stop-loss check. stop is the loss fraction of
// gross entry cash that triggers; nil disables the check.
//
// When the stop triggers the returned pnl is zero: the loss is realized by
// the forced close that follows, not double counted here. Calling this with
// either leg closed is a caller bug.
func PairPNL(short, long *Position, p1, p2, zeta float64, stop *float64) (triggered bool, pnl float64, err error) {
	if !short.IsOpen() || !long.IsOpen() {
		return false, 0, fmt.Errorf("pair pnl: both legs must be open (short open=%v, long open=%v)",
			short.IsOpen(), long.IsOpen())
	}

	shortPx, longPx := legPrices(short, long, p1, p2)

	pnlShort, err := short.PNL(shortPx)
	if err != nil {
		return false, 0, err
	}
	pnlLong, err := long.PNL(longPx)
	if err != nil {
		return false, 0, err
	}

	pnl = (pnlShort + pnlLong) * (1 - zeta)

	if pnl < 0 && stop != nil {
		grossCash := 2 * short.EntryCash()
		if math.Abs(pnl)/grossCash > *stop {
			return true, 0, nil
		}
	}
	return false, pnl, nil
}

// OpenPair opens both legs at the current prices and appends the OPEN row
// to the ledger. entryCash is committed per leg, so the row's gross cash is
// twice that.
func OpenPair(ledger *journal.Log, short, long *Position, dir SpreadDir, date time.Time, entryCash, p1, p2 float64) error {
	pair := short.pair

	var amt1, amt2 int
	switch dir {
	case LongSpread:
		if err := long.Open(pair.First, date, entryCash, p1); err != nil {
			return err
		}
		if err := short.Open(pair.Second, date, entryCash, p2); err != nil {
			return err
		}
		amt1, amt2 = long.Units(), short.Units()

	case ShortSpread:
		if err := long.Open(pair.Second, date, entryCash, p2); err != nil {
			return err
		}
		if err := short.Open(pair.First, date, entryCash, p1); err != nil {
			return err
		}
		amt1, amt2 = short.Units(), long.Units()

	default:
		return fmt.Errorf("open pair: invalid spread direction %q", dir)
	}

	ledger.Append(journal.Row{
		Date:      date,
		Status:    journal.StatusOpen,
		Type:      string(dir),
		GrossCash: 2 * entryCash,
		Price1:    p1,
		Amount1:   amt1,
		Price2:    p2,
		Amount2:   amt2,
	})
	return nil
}

// ClosePair closes both legs at the current prices, appends the CLOSE row
// and returns the realized combined P&L. The stop-loss check is not re-run
// here; a stop-loss exit passes its reason explicitly. An empty reason
// records as "Standard".
func ClosePair(ledger *journal.Log, short, long *Position, date time.Time, p1, p2, zeta float64, reason string) (float64, error) {
	if reason == "" {
		reason = journal.ReasonStandard
	}

	pair := short.pair

	var dir SpreadDir
	var amt1, amt2 int
	if short.Instrument() == pair.First {
		dir = ShortSpread
		amt1, amt2 = short.Units(), long.Units()
	} else {
		dir = LongSpread
		amt1, amt2 = long.Units(), short.Units()
	}
	grossCash := 2 * short.EntryCash()

	_, pnl, err := PairPNL(short, long, p1, p2, zeta, nil)
	if err != nil {
		return 0, fmt.Errorf("close pair: %w", err)
	}

	shortPx, longPx := legPrices(short, long, p1, p2)
	if _, err := short.Close(shortPx); err != nil {
		return 0, fmt.Errorf("close pair: %w", err)
	}
	if _, err := long.Close(longPx); err != nil {
		return 0, fmt.Errorf("close pair: %w", err)
	}

	realized := pnl
	ledger.Append(journal.Row{
		Date:      date,
		Status:    journal.StatusClose,
		Type:      string(dir),
		GrossCash: grossCash,
		PNL:       &realized,
		Price1:    p1,
		Amount1:   amt1,
		Price2:    p2,
		Amount2:   amt2,
		Reason:    reason,
	})
	return pnl, nil
}
