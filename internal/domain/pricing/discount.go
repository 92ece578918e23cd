package pricing

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDiscountName      = errors.New("discount name cannot be empty")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrInvalidDiscountKind    = errors.New("discount kind must be percent or amount")
	ErrAmbiguousDiscount      = errors.New("discount can only be either fixed amount or percentage, not both")
	ErrMissingDiscountValue   = errors.New("discount must have either fixed amount or percentage")
)

type DiscountKind string

const (
	KindPercent DiscountKind = "percent"
	KindAmount  DiscountKind = "amount"
)

var hundred = decimal.NewFromInt(100)

// Discount is a named reduction, either a percentage of the price or a fixed amount.
type Discount struct {
	id         uuid.UUID
	name       string
	percentOff *decimal.Decimal
	amountOff  *decimal.Decimal
}

func NewDiscount(id uuid.UUID, name string, percentOff, amountOff *decimal.Decimal) (*Discount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyDiscountName
	}
	if percentOff != nil && amountOff != nil {
		return nil, ErrAmbiguousDiscount
	}
	if percentOff == nil && amountOff == nil {
		return nil, ErrMissingDiscountValue
	}
	if percentOff != nil && (percentOff.IsNegative() || percentOff.GreaterThan(hundred)) {
		return nil, ErrInvalidDiscountPercent
	}
	if amountOff != nil && amountOff.IsNegative() {
		return nil, ErrInvalidDiscountAmount
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Discount{id: id, name: name, percentOff: percentOff, amountOff: amountOff}, nil
}

// ReconstructDiscount loads a stored record without validation. When both
// values are present the percentage wins.
func ReconstructDiscount(id uuid.UUID, name string, percentOff, amountOff *decimal.Decimal) *Discount {
	return &Discount{id: id, name: name, percentOff: percentOff, amountOff: amountOff}
}

func (d *Discount) IsPercentage() bool { return d.percentOff != nil }

func (d *Discount) Kind() DiscountKind {
	if d.IsPercentage() {
		return KindPercent
	}
	return KindAmount
}

func (d *Discount) Value() decimal.Decimal {
	switch {
	case d.percentOff != nil:
		return *d.percentOff
	case d.amountOff != nil:
		return *d.amountOff
	default:
		return decimal.Zero
	}
}

// AmountFor never returns less than zero or more than price. Percentages are
// clamped to [0, 100].
func (d *Discount) AmountFor(price decimal.Decimal) decimal.Decimal {
	if d == nil || !price.IsPositive() {
		return decimal.Zero
	}

	if d.percentOff != nil {
		pct := decimal.Min(decimal.Max(*d.percentOff, decimal.Zero), hundred)
		return price.Mul(pct).Div(hundred)
	}

	if d.amountOff != nil {
		amount := decimal.Max(*d.amountOff, decimal.Zero)
		return decimal.Min(amount, price)
	}

	return decimal.Zero
}

func (d *Discount) ID() uuid.UUID                { return d.id }
func (d *Discount) Name() string                 { return d.name }
func (d *Discount) PercentOff() *decimal.Decimal { return d.percentOff }
func (d *Discount) AmountOff() *decimal.Decimal  { return d.amountOff }

// CustomDiscount is an ad-hoc discount entered on a single booking.
type CustomDiscount struct {
	Name  string
	Kind  DiscountKind
	Value decimal.Decimal
}

// ToDiscount validates the custom entry and turns it into a storable discount.
func (c CustomDiscount) ToDiscount(id uuid.UUID) (*Discount, error) {
	value := c.Value
	switch c.Kind {
	case KindPercent:
		return NewDiscount(id, c.Name, &value, nil)
	case KindAmount:
		return NewDiscount(id, c.Name, nil, &value)
	default:
		return nil, ErrInvalidDiscountKind
	}
}

// asDiscount is the lenient form used for quoting. Out-of-range values are
// clamped by AmountFor instead of rejected.
func (c CustomDiscount) asDiscount() *Discount {
	value := c.Value
	switch c.Kind {
	case KindPercent:
		return ReconstructDiscount(uuid.Nil, c.Name, &value, nil)
	case KindAmount:
		return ReconstructDiscount(uuid.Nil, c.Name, nil, &value)
	default:
		return nil
	}
}
