package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordRun persists one run and its full ledger in a single transaction.
func (j *SQLite) RecordRun(run Run, rows []Row) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stop interface{}
	if run.StopLoss != nil {
		stop = *run.StopLoss
	}

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, entry_threshold, exit_threshold, stop_loss, lookback, trading_cost, start_date, ledger_rows, total_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created, run.Entry, run.Exit, stop,
		run.Lookback, run.Cost, run.Start, run.LedgerRows, run.TotalPNL,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ledger
		(run_id, seq, date, position_status, position_type, gross_cash, pnl,
		 instrument1_price, instrument1_amount, instrument2_price, instrument2_amount, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, r := range rows {
		var pnl interface{}
		if r.PNL != nil {
			pnl = *r.PNL
		}
		var reason interface{}
		if r.Reason != "" {
			reason = r.Reason
		}

		_, err := stmt.Exec(run.RunID, seq, r.Date, r.Status, r.Type, r.GrossCash, pnl,
			r.Price1, r.Amount1, r.Price2, r.Amount2, reason)
		if err != nil {
			return fmt.Errorf("record ledger row %d: %w", seq, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
