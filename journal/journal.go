package journal

import "time"

// Ledger row status.
const (
	StatusOpen  = "OPEN"
	StatusClose = "CLOSE"
)

// Close reasons recorded on CLOSE rows.
const (
	ReasonStandard = "Standard"
	ReasonStopLoss = "STOP LOSS"
)

// Row is one trade ledger entry. OPEN rows carry no realized P&L and no
// reason; CLOSE rows carry both.
type Row struct {
	Date      time.Time
	Status    string   // OPEN or CLOSE
	Type      string   // spread direction, long or short
	GrossCash float64  // entry cash of both legs combined
	PNL       *float64 // realized P&L, CLOSE rows only
	Price1    float64  // first instrument price at the event
	Amount1   int      // first instrument units
	Price2    float64
	Amount2   int
	Reason    string // CLOSE rows only
}

// Log is the append-only in-memory trade ledger a simulation run produces.
// Insertion order is chronological trade order.
type Log struct {
	rows []Row
}

func (l *Log) Append(r Row) {
	l.rows = append(l.rows, r)
}

func (l *Log) Len() int { return len(l.rows) }

func (l *Log) Rows() []Row { return l.rows }

// CumulativePNL sums realized P&L over CLOSE rows.
func (l *Log) CumulativePNL() float64 {
	var sum float64
	for _, r := range l.rows {
		if r.Status == StatusClose && r.PNL != nil {
			sum += *r.PNL
		}
	}
	return sum
}
