package market

import (
	"fmt"
	"sort"
	"time"
)

// Row is one trading day of the pair series.
type Row struct {
	Date     time.Time
	Price1   float64 // adjusted close of Pair.First
	Price2   float64 // adjusted close of Pair.Second
	Notional float64 // per-day sizing signal N_t supplied with the data
}

// Series is a daily price series for exactly two instruments, sorted
// ascending by date with a dense zero-based index. Lookbacks count rows,
// not calendar days.
type Series struct {
	Pair Pair
	Rows []Row
}

// NewSeries validates the pair, sorts the rows by date and returns the
// ready-to-replay series.
func NewSeries(pair Pair, rows []Row) (*Series, error) {
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &Series{Pair: pair, Rows: sorted}, nil
}

func (s *Series) Len() int { return len(s.Rows) }

// Last returns the final row of the series.
func (s *Series) Last() (Row, error) {
	if len(s.Rows) == 0 {
		return Row{}, fmt.Errorf("series: empty")
	}
	return s.Rows[len(s.Rows)-1], nil
}

// Returns computes the trailing m-row simple return of both instruments as
// of row i: price[i]/price[i-m] - 1. A lookback reaching before the first
// row is an error; callers are expected to warm up past it.
func (s *Series) Returns(i, m int) (r1, r2 float64, err error) {
	if m <= 0 {
		return 0, 0, fmt.Errorf("series: lookback must be positive, got %d", m)
	}
	if i < 0 || i >= len(s.Rows) {
		return 0, 0, fmt.Errorf("series: row %d out of range [0,%d)", i, len(s.Rows))
	}
	if i-m < 0 {
		return 0, 0, fmt.Errorf("series: %d-row lookback from row %d reaches before start of series",
			m, i)
	}
	cur := s.Rows[i]
	old := s.Rows[i-m]
	r1 = cur.Price1/old.Price1 - 1
	r2 = cur.Price2/old.Price2 - 1
	return r1, r2, nil
}
