package services

import (
	"math/rand/v2"
	"sync"

	"sellerconsole/internal/domain"
)

// StatusAssigner decides the status an order is displayed with. The backend
// does not yet send an authoritative status.
type StatusAssigner interface {
	Assign(o domain.Order) domain.OrderStatus
}

// ServerStatus keeps a status the backend sent if it is one of the known
// values and uses Fallback otherwise.
type ServerStatus struct {
	Fallback domain.OrderStatus
}

func (s ServerStatus) Assign(o domain.Order) domain.OrderStatus {
	if o.Status.Valid() {
		return o.Status
	}
	if s.Fallback.Valid() {
		return s.Fallback
	}
	return domain.OrderStatusPending
}

// FixedStatus stamps every order with the same status.
type FixedStatus domain.OrderStatus

func (s FixedStatus) Assign(domain.Order) domain.OrderStatus { return domain.OrderStatus(s) }

// RandomStatus picks uniformly from the fixed status set. Demo and test data only.
type RandomStatus struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStatus returns a seeded assigner; a nil source uses the global generator.
func NewRandomStatus(src rand.Source) *RandomStatus {
	r := &RandomStatus{}
	if src != nil {
		r.rng = rand.New(src)
	}
	return r
}

func (r *RandomStatus) Assign(domain.Order) domain.OrderStatus {
	n := len(domain.OrderStatuses)
	if r.rng == nil {
		return domain.OrderStatuses[rand.IntN(n)]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.OrderStatuses[r.rng.IntN(n)]
}

// StatusAssignerFor maps the ORDER_STATUS_MODE setting to an assigner.
func StatusAssignerFor(mode string) StatusAssigner {
	switch mode {
	case "fixed":
		return FixedStatus(domain.OrderStatusPending)
	case "random":
		return NewRandomStatus(nil)
	default:
		return ServerStatus{Fallback: domain.OrderStatusPending}
	}
}
