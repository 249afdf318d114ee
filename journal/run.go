package journal

import "time"

// Run records one simulation run: the parameters it was driven with and a
// summary of the resulting ledger.
type Run struct {
	RunID   string
	Created time.Time

	// Strategy parameters
	Entry    float64  // g, entry threshold on the return spread
	Exit     float64  // j, exit threshold
	StopLoss *float64 // s, loss fraction; nil when disabled
	Lookback int      // M rows
	Cost     float64  // zeta, proportional trading cost
	Start    time.Time

	LedgerRows int
	TotalPNL   float64
}
