package services

import (
	"context"
	"errors"
	"fmt"

	applog "sellerconsole/internal/log"
	"sellerconsole/internal/repos"
	"sellerconsole/internal/validate"
)

var ErrNotVerified = errors.New("seller not verified")

type SellerVerifier interface {
	VerifySeller(ctx context.Context, sellerID string) (bool, error)
}

// SellerGate admits a seller to the order screen only after the backend
// confirms the session. Outcomes go to the seller_checks audit table when
// Checks is set.
type SellerGate struct {
	Verifier SellerVerifier
	Checks   *repos.SellerCheckRepo
}

// Admit returns nil for a verified seller and an error wrapping ErrNotVerified
// otherwise. An empty or malformed id is rejected without calling the backend.
func (g *SellerGate) Admit(ctx context.Context, sellerID string) error {
	if sellerID == "" {
		g.record(sellerID, repos.CheckMissing)
		return fmt.Errorf("%w: missing seller id", ErrNotVerified)
	}
	if _, ok := validate.SellerID(sellerID); !ok {
		g.record(sellerID, repos.CheckMalformed)
		return fmt.Errorf("%w: malformed seller id", ErrNotVerified)
	}
	ok, err := g.Verifier.VerifySeller(ctx, sellerID)
	if err != nil {
		g.record(sellerID, repos.CheckError)
		return fmt.Errorf("%w: %v", ErrNotVerified, err)
	}
	if !ok {
		g.record(sellerID, repos.CheckRejected)
		return ErrNotVerified
	}
	g.record(sellerID, repos.CheckVerified)
	return nil
}

func (g *SellerGate) record(sellerID, outcome string) {
	if g.Checks == nil {
		return
	}
	if err := g.Checks.Record(applog.SellerRef(sellerID), outcome); err != nil {
		applog.Error(nil, "seller.check.record.fail", err, map[string]any{"outcome": outcome})
	}
}
