package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sellerconsole/internal/domain"
)

const (
	OpSave        = "SAVE"
	OpAddImage    = "ADD_IMAGE"
	OpDeleteImage = "DELETE_IMAGE"
)

type JournalRepo struct{ db *sqlx.DB }

func NewJournalRepo(db *sqlx.DB) *JournalRepo { return &JournalRepo{db: db} }

// Record appends one unsynced write and returns its id.
func (r *JournalRepo) Record(productID, op, payload string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
	  INSERT INTO product_writes(id, product_id, op, payload, synced, created_at)
	  VALUES (?, ?, ?, ?, 0, strftime('%Y-%m-%d %H:%M:%f','now'))
	`, id, productID, op, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *JournalRepo) ListLatest(limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.JournalEntry
	err := r.db.Select(&out, `
		SELECT id, product_id, op, payload, synced, created_at
		FROM product_writes
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *JournalRepo) ListByProduct(productID string) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := r.db.Select(&out, `
		SELECT id, product_id, op, payload, synced, created_at
		FROM product_writes
		WHERE product_id = ?
		ORDER BY created_at, rowid
	`, productID)
	return out, err
}

// CountUnsynced is shown on the product screen so the missing write-back stays visible.
func (r *JournalRepo) CountUnsynced() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM product_writes WHERE synced = 0`)
	return n, err
}
