package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	DefaultHourlyRate    = 2000
	DefaultIncludedHours = 5
)

type Calculator struct {
	hourlyRate    decimal.Decimal
	includedHours int
}

func NewCalculator(hourlyRate decimal.Decimal, includedHours int) *Calculator {
	if includedHours < 0 {
		includedHours = 0
	}
	return &Calculator{hourlyRate: hourlyRate, includedHours: includedHours}
}

func NewDefaultCalculator() *Calculator {
	return NewCalculator(decimal.NewFromInt(DefaultHourlyRate), DefaultIncludedHours)
}

func (c *Calculator) HourlyRate() decimal.Decimal { return c.hourlyRate }
func (c *Calculator) IncludedHours() int          { return c.includedHours }

// Compute is pure and total. Missing package, dates or discount count as zero.
func (c *Calculator) Compute(in PricingInput) Breakdown {
	b := Breakdown{
		BasePrice:              decimal.Zero,
		ExtraHoursFee:          decimal.Zero,
		CateringCost:           decimal.Zero,
		DiscountAmount:         decimal.Zero,
		AdditionalChargesTotal: decimal.Zero,
		DepositPaid:            in.DepositPaid,
	}

	if in.Package != nil {
		b.BasePrice = in.Package.Price
	}

	if in.Period != nil {
		b.DurationHours = int(math.Round(in.Period.Hours()))
		if b.DurationHours > c.includedHours {
			b.ExtraHours = b.DurationHours - c.includedHours
		}
		b.ExtraHoursFee = c.hourlyRate.Mul(decimal.NewFromInt(int64(b.ExtraHours)))
	}

	if in.Catering.Mode == CateringInHouse && in.Catering.Pax > 0 {
		b.CateringCost = in.Catering.PricePerPax.Mul(decimal.NewFromInt(int64(in.Catering.Pax)))
	}

	b.OriginalPrice = b.BasePrice.Add(b.ExtraHoursFee).Add(b.CateringCost)

	if d := selectedDiscount(in.Discount); d != nil {
		b.DiscountAmount = d.AmountFor(b.OriginalPrice)
		b.AppliedDiscount = &AppliedDiscount{Name: d.Name(), Kind: d.Kind(), Value: d.Value()}
	}
	b.DiscountedPrice = b.OriginalPrice.Sub(b.DiscountAmount)

	for _, ch := range in.Charges {
		b.AdditionalChargesTotal = b.AdditionalChargesTotal.Add(ch.Amount)
	}

	b.GrandTotal = b.DiscountedPrice.Add(b.AdditionalChargesTotal)
	b.BalanceDue = b.GrandTotal.Sub(b.DepositPaid)

	return b
}

func selectedDiscount(sel DiscountSelection) *Discount {
	switch sel.Mode {
	case DiscountPredefined:
		return sel.Predefined
	case DiscountCustom:
		if sel.Custom == nil {
			return nil
		}
		return sel.Custom.asDiscount()
	default:
		return nil
	}
}
