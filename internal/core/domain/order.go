package domain

import "time"

// OrderStatus is the single mutable state of an order.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderAccepted   OrderStatus = "accepted"
	OrderRejected   OrderStatus = "rejected"
)

// Valid reports whether s is a known status. Any known status may follow any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderInProgress, OrderCompleted, OrderAccepted, OrderRejected:
		return true
	}
	return false
}

// StatusHistoryEntry records a single status change on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	ChangedBy string      `json:"changed_by" bson:"changed_by"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// Order is a purchase of one package of an offer. The package terms are copied at
// creation time so later offer edits do not rewrite past orders.
type Order struct {
	ID                 string               `json:"id"`
	OfferID            string               `json:"offer"`
	OfferDetailID      string               `json:"offer_detail"`
	CustomerUserID     string               `json:"customer_user"`
	BusinessUserID     string               `json:"business_user"`
	Title              string               `json:"title"`
	Revisions          int                  `json:"revisions"`
	DeliveryTimeInDays int                  `json:"delivery_time_in_days"`
	Price              float64              `json:"price"`
	Features           []string             `json:"features"`
	OfferType          OfferType            `json:"offer_type"`
	Status             OrderStatus          `json:"status"`
	StatusHistory      []StatusHistoryEntry `json:"status_history"`
	IdempotencyKey     string               `json:"-"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// InvolvesUser reports whether userID is the customer or the business of the order.
func (o *Order) InvolvesUser(userID string) bool {
	return userID != "" && (o.CustomerUserID == userID || o.BusinessUserID == userID)
}

// OrderPatch carries the optional fields of an order update. The offer and the
// customer of an order are fixed at creation and have no patch field.
type OrderPatch struct {
	Status             *OrderStatus
	Title              *string
	Revisions          *int
	DeliveryTimeInDays *int
	Price              *float64
	Features           []string
	OfferType          *OfferType
	// Extra holds request fields that have no patchable counterpart.
	Extra []string
}

// Fields returns the wire names of the fields set on the patch.
func (p OrderPatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Status != nil, "status")
	add(p.Title != nil, "title")
	add(p.Revisions != nil, "revisions")
	add(p.DeliveryTimeInDays != nil, "delivery_time_in_days")
	add(p.Price != nil, "price")
	add(p.Features != nil, "features")
	add(p.OfferType != nil, "offer_type")
	return append(out, p.Extra...)
}

// Apply copies the set fields of p onto order, leaving status history to the caller.
func (p OrderPatch) Apply(order *Order) {
	if p.Status != nil {
		order.Status = *p.Status
	}
	if p.Title != nil {
		order.Title = *p.Title
	}
	if p.Revisions != nil {
		order.Revisions = *p.Revisions
	}
	if p.DeliveryTimeInDays != nil {
		order.DeliveryTimeInDays = *p.DeliveryTimeInDays
	}
	if p.Price != nil {
		order.Price = *p.Price
	}
	if p.Features != nil {
		order.Features = p.Features
	}
	if p.OfferType != nil {
		order.OfferType = *p.OfferType
	}
}

// OrderEvent is an audit record of something that happened to an order.
type OrderEvent struct {
	OrderID   string
	Type      string
	Status    OrderStatus
	ActorID   string
	Timestamp time.Time
}

const (
	OrderEventCreated       = "created"
	OrderEventStatusChanged = "status_changed"
	OrderEventDeleted       = "deleted"
)
