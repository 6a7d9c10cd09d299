package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// LineItem is one product line of an order.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.NullDecimal
	Note      string
}

// Order models a counter order as the remote store reports it.
type Order struct {
	ID           ident.ID
	CustomerName string
	CreatedAt    time.Time
	Status       Status
	Total        decimal.NullDecimal
	Items        []LineItem
}

// NewOrder validates and constructs an Order.
func NewOrder(id ident.ID, createdAt time.Time, status Status, items []LineItem) (*Order, error) {
	order := &Order{
		ID:        id,
		CreatedAt: createdAt,
		Status:    status,
		Items:     append([]LineItem(nil), items...),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the structural invariants of an order.
func (o *Order) Validate() error {
	if !o.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, o.Status)
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: %q has %d", ErrInvalidQuantity, item.Name, item.Quantity)
		}
	}
	return nil
}

// CanTransitionTo reports whether target is strictly ahead of the current status.
func (o *Order) CanTransitionTo(target Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if target.Rank() <= o.Status.Rank() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	return nil
}

// Visible reports whether the order belongs to the panel's working set.
func (o *Order) Visible() bool { return !o.Status.IsTerminal() }

// AmountDue returns Total when the remote store provided one, otherwise the
// sum of priced lines.
func (o *Order) AmountDue() decimal.Decimal {
	if o.Total.Valid {
		return o.Total.Decimal
	}
	sum := decimal.Zero
	for _, item := range o.Items {
		if item.UnitPrice.Valid {
			sum = sum.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return sum
}

// Summary renders the lines as "2x SmashBoss Double (Senza cipolla), 1x ...".
func (o *Order) Summary() string {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		part := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		if note := strings.TrimSpace(item.Note); note != "" {
			part += " (" + note + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// Clone returns a deep copy.
func (o Order) Clone() Order {
	o.Items = append([]LineItem(nil), o.Items...)
	return o
}
