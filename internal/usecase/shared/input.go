package shared

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Validate checks struct tags and marks failures as ErrInvalidInput.
func Validate(in any) error {
	if err := validatorInstance().Struct(in); err != nil {
		return errs.Mark(errs.Wrap(err, "validation failed"), errs.ErrInvalidInput)
	}
	return nil
}

type ItemLine struct {
	ItemID   uuid.UUID `validate:"required"`
	Quantity int       `validate:"gt=0"`
}

type ChargeInput struct {
	Name   string          `validate:"required,max=200"`
	Amount decimal.Decimal `validate:"gte=0"`
	Note   string          `validate:"max=500"`
}

type CateringInput struct {
	Mode        pricing.CateringMode `validate:"omitempty,oneof=none external in_house"`
	MenuID      *uuid.UUID
	PricePerPax *decimal.Decimal `validate:"omitempty,gte=0"`
}

type CustomDiscountInput struct {
	Name  string               `validate:"required,max=200"`
	Kind  pricing.DiscountKind `validate:"required,oneof=percent amount"`
	Value decimal.Decimal      `validate:"gte=0"`
}

type DiscountInput struct {
	Mode       pricing.DiscountMode `validate:"omitempty,oneof=none predefined custom"`
	DiscountID *uuid.UUID           `validate:"required_if=Mode predefined"`
	Custom     *CustomDiscountInput `validate:"required_if=Mode custom"`
}

// Choice maps the input onto the engine's discount selection.
func (d *DiscountInput) Choice() DiscountChoice {
	if d == nil {
		return DiscountChoice{Mode: pricing.DiscountNone}
	}
	choice := DiscountChoice{Mode: d.Mode, DiscountID: d.DiscountID}
	if choice.Mode == "" {
		choice.Mode = pricing.DiscountNone
	}
	if d.Custom != nil {
		choice.Custom = &pricing.CustomDiscount{Name: d.Custom.Name, Kind: d.Custom.Kind, Value: d.Custom.Value}
	}
	return choice
}

func ToCharges(in []ChargeInput) ([]pricing.Charge, error) {
	out := make([]pricing.Charge, 0, len(in))
	for _, c := range in {
		charge, err := pricing.NewCharge(c.Name, c.Amount, c.Note)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidInput)
		}
		out = append(out, charge)
	}
	return out, nil
}

// PeriodFrom builds an optional period. Supplying only one bound is invalid.
func PeriodFrom(start, end *time.Time) (*period.Period, error) {
	if (start == nil) != (end == nil) {
		return nil, errs.Mark(errs.New("both start and end are required"), errs.ErrInvalidInput)
	}
	p, err := period.FromPointers(start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}
	return p, nil
}

// MergeLines sums duplicate item lines and orders them by item id.
func MergeLines(lines []ItemLine) []ItemLine {
	totals := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		totals[l.ItemID] += l.Quantity
	}
	out := make([]ItemLine, 0, len(totals))
	for id, qty := range totals {
		out = append(out, ItemLine{ItemID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID.String() < out[j].ItemID.String() })
	return out
}

func Demands(lines []ItemLine) []ItemDemand {
	out := make([]ItemDemand, 0, len(lines))
	for _, l := range lines {
		out = append(out, ItemDemand{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}
