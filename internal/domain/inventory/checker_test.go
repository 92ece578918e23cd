//go:build unit

package inventory_test

import (
	"testing"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/inventory"
	"venue-booking/internal/domain/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*60*60)

func span(t *testing.T, fromDay, fromHour, toDay, toHour int) period.Period {
	t.Helper()
	p, err := period.New(
		time.Date(2025, time.August, fromDay, fromHour, 0, 0, 0, manila),
		time.Date(2025, time.August, toDay, toHour, 0, 0, 0, manila),
	)
	require.NoError(t, err)
	return p
}

func kinds(msgs []inventory.Message) []inventory.MessageKind {
	out := make([]inventory.MessageKind, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Kind)
	}
	return out
}

func newChecker() *inventory.Checker {
	return inventory.NewChecker(inventory.DefaultLowStockThreshold, manila)
}

func TestCheck_ShortfallAndLowStock(t *testing.T) {
	itemID := uuid.New()
	req := span(t, 10, 9, 10, 17)
	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 6, Period: req, BookingStatus: booking.StatusConfirmed},
	}
	stock := inventory.Stock{Total: 10}

	t.Run("requesting more than available", func(t *testing.T) {
		r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 5, Period: &req}, allocs, stock)

		assert.Equal(t, 6, r.UsedOnOverlap)
		assert.Equal(t, 4, r.Available)
		require.Len(t, r.Warnings, 1)
		assert.Equal(t, inventory.KindInsufficientStock, r.Warnings[0].Kind)
		assert.Equal(t, 4, r.Warnings[0].Available)
		assert.Equal(t, 5, r.Warnings[0].Quantity)
		require.Len(t, r.Conflicts, 1)
		assert.Equal(t, 6, r.Conflicts[0].Quantity)
	})

	t.Run("consuming exactly the rest", func(t *testing.T) {
		r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 4, Period: &req}, allocs, stock)

		assert.Equal(t, []inventory.MessageKind{inventory.KindLowStock}, kinds(r.Warnings))
		assert.Equal(t, 0, r.Warnings[0].Available)
	})

	t.Run("plenty left", func(t *testing.T) {
		r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 1, Period: &req}, allocs, inventory.Stock{Total: 100})

		assert.Empty(t, r.Warnings)
		assert.Len(t, r.Conflicts, 1, "overlap is reported even when stock suffices")
	})
}

func TestCheck_TwoBookingsSameItem(t *testing.T) {
	itemID := uuid.New()
	venueID := uuid.New()
	p := span(t, 12, 8, 13, 22)
	first := uuid.New()

	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: first, VenueID: &venueID, Quantity: 15, Period: p, BookingStatus: booking.StatusPending},
	}

	r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 15, Period: &p}, allocs, inventory.Stock{Total: 20})

	require.Len(t, r.Conflicts, 1)
	assert.Equal(t, 15, r.Conflicts[0].Quantity)
	assert.Equal(t, first, *r.Conflicts[0].BookingID)
	assert.Equal(t, venueID, *r.Conflicts[0].VenueID)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, inventory.KindInsufficientStock, r.Warnings[0].Kind)
	assert.Equal(t, 5, r.Warnings[0].Available)
	assert.Equal(t, 15, r.Warnings[0].Quantity)
}

func TestCheck_Filters(t *testing.T) {
	itemID := uuid.New()
	self := uuid.New()
	req := span(t, 10, 9, 10, 17)

	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 3, Period: req, BookingStatus: booking.StatusCanceled},
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 3, Period: req, BookingStatus: booking.StatusArchived},
		{ItemID: itemID, BookingID: self, Quantity: 3, Period: req, BookingStatus: booking.StatusConfirmed},
		{ItemID: uuid.New(), BookingID: uuid.New(), Quantity: 3, Period: req, BookingStatus: booking.StatusConfirmed},
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 3, Period: span(t, 11, 9, 11, 17), BookingStatus: booking.StatusConfirmed},
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 2, Period: req, BookingStatus: booking.StatusDraft},
	}

	r := newChecker().Check(inventory.Request{ItemID: itemID, ExcludeBookingID: &self, Quantity: 1, Period: &req}, allocs, inventory.Stock{Total: 50})

	assert.Equal(t, 2, r.UsedOnOverlap, "only the draft allocation counts")
	assert.Len(t, r.Conflicts, 1)
}

func TestCheck_SameDayBoundary(t *testing.T) {
	itemID := uuid.New()
	morning := span(t, 10, 6, 10, 9)
	evening := span(t, 10, 18, 10, 23)
	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 8, Period: morning, BookingStatus: booking.StatusConfirmed},
	}

	r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 5, Period: &evening}, allocs, inventory.Stock{Total: 10})

	assert.Equal(t, 8, r.UsedOnOverlap)
	assert.Equal(t, []inventory.MessageKind{inventory.KindInsufficientStock}, kinds(r.Warnings))
}

func TestCheck_OutOfService(t *testing.T) {
	itemID := uuid.New()
	req := span(t, 10, 9, 10, 17)

	r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 7, Period: &req}, nil, inventory.Stock{Total: 10, OutOfService: 4})

	assert.Equal(t, 6, r.Available)
	assert.Equal(t, []inventory.MessageKind{inventory.KindInsufficientStock}, kinds(r.Warnings))
	assert.Empty(t, r.Conflicts)
}

func TestCheck_GroupsByBookingAndVenue(t *testing.T) {
	itemID := uuid.New()
	other := uuid.New()
	venueID := uuid.New()
	req := span(t, 10, 9, 10, 17)
	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: other, VenueID: &venueID, Quantity: 2, Period: req, BookingStatus: booking.StatusConfirmed},
		{ItemID: itemID, BookingID: other, VenueID: &venueID, Quantity: 3, Period: req, BookingStatus: booking.StatusConfirmed},
	}

	r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 1, Period: &req}, allocs, inventory.Stock{Total: 100})

	require.Len(t, r.Conflicts, 1)
	assert.Equal(t, 5, r.Conflicts[0].Quantity)
}

func TestCheck_WithoutDates(t *testing.T) {
	itemID := uuid.New()
	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 9, Period: span(t, 10, 9, 10, 17), BookingStatus: booking.StatusConfirmed},
	}

	t.Run("within stock", func(t *testing.T) {
		r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 8}, allocs, inventory.Stock{Total: 10, OutOfService: 1})

		assert.Equal(t, 9, r.Available)
		assert.Empty(t, r.Warnings)
		assert.Empty(t, r.Conflicts)
	})

	t.Run("above stock", func(t *testing.T) {
		r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 12}, allocs, inventory.Stock{Total: 10})

		assert.Equal(t, []inventory.MessageKind{inventory.KindInsufficientStock}, kinds(r.Warnings))
		assert.Empty(t, r.Conflicts)
	})
}

func TestCheck_OvercommittedStock(t *testing.T) {
	itemID := uuid.New()
	req := span(t, 10, 9, 10, 17)
	allocs := []inventory.Allocation{
		{ItemID: itemID, BookingID: uuid.New(), Quantity: 12, Period: req, BookingStatus: booking.StatusConfirmed},
	}

	r := newChecker().Check(inventory.Request{ItemID: itemID, Quantity: 1, Period: &req}, allocs, inventory.Stock{Total: 10})

	assert.Equal(t, -2, r.Available)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, 0, r.Warnings[0].Available)
}

func TestNewItem(t *testing.T) {
	tests := []struct {
		name  string
		iname string
		stock inventory.Stock
		errIs error
	}{
		{name: "valid", iname: "Monobloc chair", stock: inventory.Stock{Total: 200, OutOfService: 12}},
		{name: "empty name", iname: " ", stock: inventory.Stock{Total: 1}, errIs: inventory.ErrEmptyItemName},
		{name: "negative total", iname: "Table", stock: inventory.Stock{Total: -1}, errIs: inventory.ErrNegativeStock},
		{name: "out of service above total", iname: "Table", stock: inventory.Stock{Total: 2, OutOfService: 3}, errIs: inventory.ErrOutOfServiceExcess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := inventory.NewItem(uuid.Nil, tt.iname, tt.stock)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 188, item.Stock().Usable())
		})
	}
}
