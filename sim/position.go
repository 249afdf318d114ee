package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/pairs/market"
)

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// Position is one leg of the spread pair: a single long or short exposure
// in one of the pair's two instruments. The side is fixed for the life of
// the position; which instrument it holds can change from trade to trade.
//
// A position is either fully open or fully closed. The open flag guards
// every entry field, so there is no partially populated state.
type Position struct {
	side Side
	pair market.Pair

	open       bool
	instrument string
	date       time.Time
	entryCash  float64
	price      float64
	units      int
}

// NewPosition creates a closed position with the given fixed side.
func NewPosition(side Side, pair market.Pair) (*Position, error) {
	if side != Long && side != Short {
		return nil, fmt.Errorf("position: invalid side %d", side)
	}
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	return &Position{side: side, pair: pair}, nil
}

func (p *Position) Side() Side         { return p.side }
func (p *Position) IsOpen() bool       { return p.open }
func (p *Position) Instrument() string { return p.instrument }
func (p *Position) Date() time.Time    { return p.date }
func (p *Position) EntryCash() float64 { return p.entryCash }
func (p *Position) EntryPrice() float64 { return p.price }

// Units is the position size in whole shares, entryCash/price rounded to
// the nearest unit.
func (p *Position) Units() int { return p.units }

// Open enters the position. The instrument must be one of the pair's two
// names and the position must currently be closed; anything else is a
// caller bug and comes back as an error.
func (p *Position) Open(instrument string, date time.Time, entryCash, price float64) error {
	if p.open {
		return fmt.Errorf("position: %s leg already open (%d %s since %s)",
			p.side, p.units, p.instrument, p.date.Format("2006-01-02"))
	}
	if !p.pair.Contains(instrument) {
		return fmt.Errorf("position: unknown instrument %q, want one of %s", instrument, p.pair)
	}
	if price <= 0 {
		return fmt.Errorf("position: non-positive price %v for %s", price, instrument)
	}

	p.open = true
	p.instrument = instrument
	p.date = date
	p.entryCash = entryCash
	p.price = price
	p.units = int(math.Round(entryCash / price))
	return nil
}

// Close exits the position at price, returning the realized P&L and
// resetting the leg to its closed state.
func (p *Position) Close(price float64) (float64, error) {
	pnl, err := p.PNL(price)
	if err != nil {
		return 0, fmt.Errorf("position: close: %w", err)
	}

	p.open = false
	p.instrument = ""
	p.date = time.Time{}
	p.entryCash = 0
	p.price = 0
	p.units = 0
	return pnl, nil
}

// PNL marks the open position to price: signed mark-to-market value minus
// the signed entry cash.
func (p *Position) PNL(price float64) (float64, error) {
	if !p.open {
		return 0, fmt.Errorf("%s leg is not open", p.side)
	}
	dir := float64(p.side)
	return dir*float64(p.units)*price - dir*p.entryCash, nil
}
