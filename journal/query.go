package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	var run Run
	var stop sql.NullFloat64

	row := j.db.QueryRow(`
		SELECT run_id, created, entry_threshold, exit_threshold, stop_loss, lookback, trading_cost, start_date, ledger_rows, total_pnl
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&run.RunID,
		&run.Created,
		&run.Entry,
		&run.Exit,
		&stop,
		&run.Lookback,
		&run.Cost,
		&run.Start,
		&run.LedgerRows,
		&run.TotalPNL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	if stop.Valid {
		run.StopLoss = &stop.Float64
	}
	return run, nil
}

// ListRows returns a run's ledger in insertion order.
func (j *SQLite) ListRows(runID string) ([]Row, error) {
	rows, err := j.db.Query(`
		SELECT date, position_status, position_type, gross_cash, pnl,
		       instrument1_price, instrument1_amount, instrument2_price, instrument2_amount, reason
		FROM ledger
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var pnl sql.NullFloat64
		var reason sql.NullString
		if err := rows.Scan(
			&r.Date,
			&r.Status,
			&r.Type,
			&r.GrossCash,
			&pnl,
			&r.Price1,
			&r.Amount1,
			&r.Price2,
			&r.Amount2,
			&reason,
		); err != nil {
			return nil, err
		}
		if pnl.Valid {
			v := pnl.Float64
			r.PNL = &v
		}
		r.Reason = reason.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalPNL sums realized P&L over a run's CLOSE rows.
func (j *SQLite) TotalPNL(runID string) (float64, error) {
	var total sql.NullFloat64
	err := j.db.QueryRow(`
		SELECT SUM(pnl) FROM ledger
		WHERE run_id = ? AND position_status = ?`, runID, StatusClose).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
