// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	days INTEGER NOT NULL,
	capital REAL NOT NULL,
	hedge_ratio REAL NOT NULL,
	final_asset REAL NOT NULL,
	final_cash REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS days (
	run_id TEXT NOT NULL,
	date TEXT NOT NULL,
	total_asset REAL NOT NULL,
	cash REAL NOT NULL,
	long_holding REAL NOT NULL,
	short_holding REAL NOT NULL,
	short_margin REAL NOT NULL,
	long_fee REAL NOT NULL,
	short_fee REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_days_run_date ON days(run_id, date);

CREATE TABLE IF NOT EXISTS lots (
	lot_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	stock TEXT NOT NULL,
	price REAL NOT NULL,
	units REAL NOT NULL,
	real_value REAL NOT NULL,
	date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lots_run_date ON lots(run_id, date);
`
