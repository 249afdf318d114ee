// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	entry_threshold REAL NOT NULL,
	exit_threshold REAL NOT NULL,
	stop_loss REAL,
	lookback INTEGER NOT NULL,
	trading_cost REAL NOT NULL,
	start_date DATETIME NOT NULL,
	ledger_rows INTEGER NOT NULL,
	total_pnl REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	date DATETIME NOT NULL,
	position_status TEXT NOT NULL,
	position_type TEXT NOT NULL,
	gross_cash REAL NOT NULL,
	pnl REAL,
	instrument1_price REAL NOT NULL,
	instrument1_amount INTEGER NOT NULL,
	instrument2_price REAL NOT NULL,
	instrument2_amount INTEGER NOT NULL,
	reason TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_ledger_date ON ledger(date);
`
