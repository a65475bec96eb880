package domain

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses is the fixed status set, in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// BadgeClass maps a status to its badge CSS class; unknown values get the neutral one.
func (s OrderStatus) BadgeClass() string {
	switch s {
	case OrderStatusPending:
		return "badge-pending"
	case OrderStatusProcessing:
		return "badge-processing"
	case OrderStatusShipped:
		return "badge-shipped"
	case OrderStatusDelivered:
		return "badge-delivered"
	case OrderStatusCancelled:
		return "badge-cancelled"
	}
	return "badge-neutral"
}

type Order struct {
	OrderID    string      `json:"orderId"`
	TrackingID string      `json:"trackingId"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Price      float64     `json:"price"`
	Status     OrderStatus `json:"status"`
	Date       string      `json:"date"`
	Time       string      `json:"time"`
	Address    string      `json:"address"`
}

// JournalEntry is one product write the console recorded instead of sending upstream.
type JournalEntry struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	Op        string `db:"op"` // SAVE | ADD_IMAGE | DELETE_IMAGE
	Payload   string `db:"payload"`
	Synced    bool   `db:"synced"`
	CreatedAt string `db:"created_at"`
}

// SellerCheck is one outcome of the order screen's session gate.
type SellerCheck struct {
	ID         string `db:"id"`
	SellerHash string `db:"seller_hash"`
	Outcome    string `db:"outcome"` // VERIFIED | REJECTED | MISSING | ERROR
	CreatedAt  string `db:"created_at"`
}
