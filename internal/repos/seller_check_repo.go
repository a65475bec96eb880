package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sellerconsole/internal/domain"
)

const (
	CheckVerified  = "VERIFIED"
	CheckRejected  = "REJECTED"
	CheckMissing   = "MISSING"
	CheckMalformed = "MALFORMED"
	CheckError     = "ERROR"
)

type SellerCheckRepo struct{ db *sqlx.DB }

func NewSellerCheckRepo(db *sqlx.DB) *SellerCheckRepo { return &SellerCheckRepo{db: db} }

func (r *SellerCheckRepo) Record(sellerHash, outcome string) error {
	_, err := r.db.Exec(`
	  INSERT INTO seller_checks(id, seller_hash, outcome, created_at)
	  VALUES (?, ?, ?, strftime('%Y-%m-%d %H:%M:%f','now'))
	`, uuid.NewString(), sellerHash, outcome)
	return err
}

func (r *SellerCheckRepo) ListLatest(limit int) ([]domain.SellerCheck, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.SellerCheck
	err := r.db.Select(&out, `
		SELECT id, seller_hash, outcome, created_at
		FROM seller_checks
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}
