package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sellerconsole/internal/domain"
)

var (
	ErrUnknownColumn = errors.New("unknown order column")
	ErrOrderNotFound = errors.New("order not found")
)

// OrderColumns are the sortable columns, in table order.
var OrderColumns = []string{"orderId", "date", "time", "name", "email", "price", "status"}

type OrderSource interface {
	Orders(ctx context.Context) ([]domain.Order, error)
}

type Gate interface {
	Admit(ctx context.Context, sellerID string) error
}

type OrderScreenDeps struct {
	Gate   Gate
	Source OrderSource
	Status StatusAssigner
}

type OrderColumn struct {
	Key    string
	Label  string
	Sorted bool
}

// OrderDetails is the read-only record shown by the details modal.
type OrderDetails struct {
	OrderID    string
	TrackingID string
	Name       string
	Email      string
	Date       string
	Time       string
	Address    string
	Price      string
}

func NewOrderDetails(o domain.Order) OrderDetails {
	return OrderDetails{
		OrderID:    o.OrderID,
		TrackingID: o.TrackingID,
		Name:       o.Name,
		Email:      o.Email,
		Date:       o.Date,
		Time:       o.Time,
		Address:    o.Address,
		Price:      FormatAmount(o.Price),
	}
}

type OrderScreenState struct {
	Columns []OrderColumn
	Rows    []domain.Order
	Query   string
	SortKey string
	Total   int
	Details *OrderDetails
}

// OrderScreen is one mounted order-management view.
type OrderScreen struct {
	mu sync.Mutex

	orders   []domain.Order // as fetched, never reordered
	sorted   []domain.Order
	sortKey  string
	query    string
	selected *domain.Order
	closed   bool
}

// MountOrderScreen admits the seller first and fetches orders only after that
// succeeds. A rejected seller yields ErrNotVerified and no screen. A failed
// fetch yields an empty screen plus the error for logging.
func MountOrderScreen(ctx context.Context, sellerID string, deps OrderScreenDeps) (*OrderScreen, error) {
	if err := deps.Gate.Admit(ctx, sellerID); err != nil {
		return nil, err
	}
	s := &OrderScreen{}
	orders, err := deps.Source.Orders(ctx)
	if err != nil {
		return s, fmt.Errorf("fetch orders: %w", err)
	}
	status := deps.Status
	if status == nil {
		status = ServerStatus{Fallback: domain.OrderStatusPending}
	}
	stamped := make([]domain.Order, len(orders))
	for i, o := range orders {
		o.Status = status.Assign(o)
		stamped[i] = o
	}
	s.orders = stamped
	s.sorted = slices.Clone(stamped)
	return s, nil
}

// Sort orders the fetched list ascending by key. It always starts from the
// fetched order, never from the previous sort.
func (s *OrderScreen) Sort(key string) error {
	if !slices.Contains(OrderColumns, key) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScreenClosed
	}
	s.sorted = SortOrders(s.orders, key)
	s.sortKey = key
	return nil
}

// SortOrders returns a stably sorted copy of orders. Numeric columns compare
// by value; everything else compares lower-cased with locale-aware collation.
func SortOrders(orders []domain.Order, key string) []domain.Order {
	out := slices.Clone(orders)
	coll := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b domain.Order) int {
		return compareValues(coll, orderField(a, key), orderField(b, key))
	})
	return out
}

func orderField(o domain.Order, key string) any {
	switch key {
	case "orderId":
		return o.OrderID
	case "trackingId":
		return o.TrackingID
	case "date":
		return o.Date
	case "time":
		return o.Time
	case "name":
		return o.Name
	case "email":
		return o.Email
	case "address":
		return o.Address
	case "price":
		return o.Price
	case "status":
		return string(o.Status)
	}
	return nil
}

func compareValues(coll *collate.Collator, a, b any) int {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return coll.CompareString(strings.ToLower(toText(a)), strings.ToLower(toText(b)))
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return FormatAmount(t)
	}
	return fmt.Sprint(v)
}

func (s *OrderScreen) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Rows filters the sorted list by the query against order id or customer name.
func (s *OrderScreen) Rows() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterOrders(s.sorted, s.query)
}

// FilterOrders keeps orders whose id or name contains q, ignoring case.
// The input is not modified; an empty q returns a copy of all of it.
func FilterOrders(orders []domain.Order, q string) []domain.Order {
	q = strings.ToLower(q)
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.OrderID), q) || strings.Contains(strings.ToLower(o.Name), q) {
			out = append(out, o)
		}
	}
	return out
}

// Select opens the details modal for an order.
func (s *OrderScreen) Select(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScreenClosed
	}
	for _, o := range s.orders {
		if o.OrderID == orderID {
			sel := o
			s.selected = &sel
			return nil
		}
	}
	return ErrOrderNotFound
}

func (s *OrderScreen) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns the open modal's record; nil means the modal is closed.
func (s *OrderScreen) Selected() *OrderDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	d := NewOrderDetails(*s.selected)
	return &d
}

func (s *OrderScreen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.selected = nil
	return nil
}

func (s *OrderScreen) State() OrderScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := OrderScreenState{
		Rows:    FilterOrders(s.sorted, s.query),
		Query:   s.query,
		SortKey: s.sortKey,
		Total:   len(s.orders),
	}
	for _, k := range OrderColumns {
		st.Columns = append(st.Columns, OrderColumn{Key: k, Label: ColumnLabel(k), Sorted: k == s.sortKey})
	}
	if s.selected != nil {
		d := NewOrderDetails(*s.selected)
		st.Details = &d
	}
	return st
}

// ColumnLabel upper-cases the first letter of a column key.
func ColumnLabel(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// FormatAmount renders a price the shortest way that round-trips.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
