package pricing

import (
	"errors"
	"strings"

	"venue-booking/internal/domain/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyChargeName = errors.New("charge name cannot be empty")
	ErrNegativeCharge  = errors.New("charge amount cannot be negative")
)

type CateringMode string

const (
	CateringNone     CateringMode = "none"
	CateringExternal CateringMode = "external"
	CateringInHouse  CateringMode = "in_house"
)

func (m CateringMode) IsValid() bool {
	switch m {
	case CateringNone, CateringExternal, CateringInHouse:
		return true
	}
	return false
}

type DiscountMode string

const (
	DiscountNone       DiscountMode = "none"
	DiscountPredefined DiscountMode = "predefined"
	DiscountCustom     DiscountMode = "custom"
)

type Package struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// Catering only costs money in in-house mode.
type Catering struct {
	Mode        CateringMode
	Pax         int
	PricePerPax decimal.Decimal
}

type DiscountSelection struct {
	Mode       DiscountMode
	Predefined *Discount
	Custom     *CustomDiscount
}

// Charge is a named line item added on top of the discounted price.
type Charge struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

func NewCharge(name string, amount decimal.Decimal, note string) (Charge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Charge{}, ErrEmptyChargeName
	}
	if amount.IsNegative() {
		return Charge{}, ErrNegativeCharge
	}
	return Charge{Name: name, Amount: amount, Note: strings.TrimSpace(note)}, nil
}

type PricingInput struct {
	Package     *Package
	Period      *period.Period
	Catering    Catering
	Discount    DiscountSelection
	Charges     []Charge
	DepositPaid decimal.Decimal
}

type AppliedDiscount struct {
	Name  string          `json:"name"`
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Breakdown keeps full precision. Use Rounded for display.
type Breakdown struct {
	BasePrice              decimal.Decimal
	DurationHours          int
	ExtraHours             int
	ExtraHoursFee          decimal.Decimal
	CateringCost           decimal.Decimal
	OriginalPrice          decimal.Decimal
	DiscountAmount         decimal.Decimal
	DiscountedPrice        decimal.Decimal
	AdditionalChargesTotal decimal.Decimal
	GrandTotal             decimal.Decimal
	DepositPaid            decimal.Decimal
	BalanceDue             decimal.Decimal
	AppliedDiscount        *AppliedDiscount
}

// Rounded rounds every currency field to whole units, half away from zero.
func (b Breakdown) Rounded() Breakdown {
	r := b
	r.BasePrice = b.BasePrice.Round(0)
	r.ExtraHoursFee = b.ExtraHoursFee.Round(0)
	r.CateringCost = b.CateringCost.Round(0)
	r.OriginalPrice = b.OriginalPrice.Round(0)
	r.DiscountAmount = b.DiscountAmount.Round(0)
	r.DiscountedPrice = b.DiscountedPrice.Round(0)
	r.AdditionalChargesTotal = b.AdditionalChargesTotal.Round(0)
	r.GrandTotal = b.GrandTotal.Round(0)
	r.DepositPaid = b.DepositPaid.Round(0)
	r.BalanceDue = b.BalanceDue.Round(0)
	return r
}
