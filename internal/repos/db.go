package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the console's local database. It holds only the write journal
// and the seller-check audit trail; screen state never lands here.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A second pooled connection to ":memory:" would see an empty database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Product writes the console could not send upstream (no write endpoint yet)
CREATE TABLE IF NOT EXISTS product_writes(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  op TEXT NOT NULL CHECK (op IN ('SAVE','ADD_IMAGE','DELETE_IMAGE')),
  payload TEXT NOT NULL,
  synced INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_product_writes_product    ON product_writes(product_id);
CREATE INDEX IF NOT EXISTS idx_product_writes_created_at ON product_writes(created_at);

-- Order screen session gate outcomes; seller ids stored as digests only
CREATE TABLE IF NOT EXISTS seller_checks(
  id TEXT PRIMARY KEY,
  seller_hash TEXT NOT NULL,
  outcome TEXT NOT NULL CHECK (outcome IN ('VERIFIED','REJECTED','MISSING','MALFORMED','ERROR')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_seller_checks_created_at ON seller_checks(created_at);
`
	_, err := db.Exec(schema)
	return err
}
