package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of the order's payment
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusAuthorizing PaymentStatus = "authorizing"
	PaymentStatusCompleted   PaymentStatus = "completed"
	PaymentStatusFailed      PaymentStatus = "failed"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

var paymentMethods = map[PaymentMethod]bool{
	PaymentMethodCreditCard:     true,
	PaymentMethodDebitCard:      true,
	PaymentMethodPayPal:         true,
	PaymentMethodBankTransfer:   true,
	PaymentMethodCashOnDelivery: true,
}

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return paymentMethods[m]
}

// ActorRole distinguishes customers from staff on authorization checks
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleAdmin    ActorRole = "admin"
	RoleSystem   ActorRole = "system"
)

// Address is a shipping destination
type Address struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// Validate checks that every address field is present
func (a Address) Validate() error {
	fields := []struct{ name, value string }{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return NewInvalidAddress(missing)
	}
	return nil
}

// Shipping holds destination and fulfilment data
type Shipping struct {
	Address        Address
	Method         string
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// Payment holds payment bookkeeping. RefundAmount is zero until a refund is issued.
type Payment struct {
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	PaidAt        *time.Time
	RefundedAt    *time.Time
	RefundAmount  decimal.Decimal
}

// OrderLine is an immutable snapshot of one purchased product
type OrderLine struct {
	ProductID string
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// StatusEntry is one element of the append-only status history
type StatusEntry struct {
	Status    OrderStatus
	Timestamp time.Time
	ActorID   string
	Note      string
}

// Notes holds free-text annotations
type Notes struct {
	Customer string
	Admin    string
	Internal string
}

// Order is the order aggregate
type Order struct {
	ID            string
	OrderNumber   string
	CustomerID    string
	Items         []OrderLine
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	ShippingCost  decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Currency      Currency
	Status        OrderStatus
	Payment       Payment
	Shipping      Shipping
	StatusHistory []StatusEntry
	Notes         Notes
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrderParams carries everything needed to place an order
type NewOrderParams struct {
	ID            string
	OrderNumber   string
	CustomerID    string
	Lines         []OrderLine
	PaymentMethod PaymentMethod
	Shipping      Shipping
	TaxRate       decimal.Decimal
	ShippingCost  decimal.Decimal
	Discount      decimal.Decimal
	Currency      Currency
	CustomerNote  string
	ActorID       string
	Now           time.Time
}

// NewOrder builds a pending order, computes its totals and records the initial history entry
func NewOrder(p NewOrderParams) (*Order, error) {
	if strings.TrimSpace(p.CustomerID) == "" {
		return nil, ErrCustomerIDRequired
	}
	if len(p.Lines) == 0 {
		return nil, ErrItemsRequired
	}
	if !p.PaymentMethod.Valid() {
		return nil, NewInvalidPaymentMethod(string(p.PaymentMethod))
	}
	if !p.Currency.Valid() {
		return nil, NewUnsupportedCurrency(string(p.Currency))
	}
	if err := p.Shipping.Address.Validate(); err != nil {
		return nil, err
	}

	lines := make([]OrderLine, len(p.Lines))
	for i, line := range p.Lines {
		if line.Quantity < 1 {
			return nil, NewInvalidQuantity(line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return nil, NewInvalidAmount("unit_price")
		}
		line.UnitPrice = RoundMoney(line.UnitPrice)
		line.LineTotal = RoundMoney(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lines[i] = line
	}

	now := p.Now.UTC()
	order := &Order{
		ID:           p.ID,
		OrderNumber:  p.OrderNumber,
		CustomerID:   p.CustomerID,
		Items:        lines,
		TaxRate:      p.TaxRate,
		ShippingCost: p.ShippingCost,
		Discount:     p.Discount,
		Currency:     p.Currency,
		Status:       OrderStatusPending,
		Payment: Payment{
			Method: p.PaymentMethod,
			Status: PaymentStatusPending,
		},
		Shipping:  p.Shipping,
		Notes:     Notes{Customer: p.CustomerNote},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.Shipping.TrackingNumber = ""
	order.Shipping.ShippedAt = nil
	order.Shipping.DeliveredAt = nil

	if err := order.Recalculate(); err != nil {
		return nil, err
	}

	order.appendHistory(StatusEntry{
		Status:    OrderStatusPending,
		Timestamp: now,
		ActorID:   p.ActorID,
		Note:      "order placed",
	})

	return order, nil
}

// appendHistory adds entry unless it repeats the last entry's status, actor and note
func (o *Order) appendHistory(entry StatusEntry) {
	if n := len(o.StatusHistory); n > 0 {
		last := o.StatusHistory[n-1]
		if last.Status == entry.Status && last.ActorID == entry.ActorID && last.Note == entry.Note {
			return
		}
	}
	o.StatusHistory = append(o.StatusHistory, entry)
}

// OwnedBy reports whether customerID placed the order
func (o *Order) OwnedBy(customerID string) bool {
	return customerID != "" && o.CustomerID == customerID
}

// CancellableBy reports whether the actor may cancel the order
func (o *Order) CancellableBy(actorID string, role ActorRole) bool {
	switch role {
	case RoleAdmin, RoleSystem:
		return true
	default:
		return o.OwnedBy(actorID)
	}
}

// AddAdminNote appends a line to the admin notes
func (o *Order) AddAdminNote(note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return ErrNoteRequired
	}
	if o.Notes.Admin == "" {
		o.Notes.Admin = note
	} else {
		o.Notes.Admin += "\n" + note
	}
	o.touch(now)
	return nil
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]OrderLine(nil), o.Items...)
	c.StatusHistory = append([]StatusEntry(nil), o.StatusHistory...)
	c.Payment.PaidAt = cloneTime(o.Payment.PaidAt)
	c.Payment.RefundedAt = cloneTime(o.Payment.RefundedAt)
	c.Shipping.ShippedAt = cloneTime(o.Shipping.ShippedAt)
	c.Shipping.DeliveredAt = cloneTime(o.Shipping.DeliveredAt)
	return &c
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now.UTC()
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timePtr(t time.Time) *time.Time {
	v := t.UTC()
	return &v
}
