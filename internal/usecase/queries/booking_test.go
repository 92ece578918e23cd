//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/usecase/queries"
	"venue-booking/internal/usecase/shared"
	"venue-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type mapCache struct {
	days map[uuid.UUID][]period.Day
	gets int
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) ([]period.Day, bool, error) {
	c.gets++
	d, ok := c.days[id]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, id uuid.UUID, days []period.Day) error {
	c.days[id] = days
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		delete(c.days, id)
	}
	return nil
}

func at(day, hour int) *time.Time {
	t := time.Date(2025, time.July, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type BookingQueriesTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	cache *mapCache
	q     queries.BookingQueries
}

func (s *BookingQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.cache = &mapCache{days: map[uuid.UUID][]period.Day{}}

	cfg := config.NewTestConfig().Engine
	cfg.TimeZone = "UTC"
	engine, err := shared.NewEngine(cfg, clock.NewMockClock(*at(1, 12)))
	s.Require().NoError(err)

	s.q = queries.NewBookingQueries(s.store.CommandReads(), engine, s.cache)
}

func TestBookingQueriesSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesTestSuite))
}

func (s *BookingQueriesTestSuite) TestQuote() {
	packageID := s.store.AddPackage("Wedding", "20000")
	discountID := s.store.AddPercentDiscount("Loyalty", "10")
	deposit := dec("5000")

	b, err := s.q.Quote(s.ctx, queries.QuoteInput{
		PackageID:   &packageID,
		StartAt:     at(20, 10),
		EndAt:       at(20, 17),
		Discount:    &shared.DiscountInput{Mode: pricing.DiscountPredefined, DiscountID: &discountID},
		Charges:     []shared.ChargeInput{{Name: "Sound system", Amount: dec("1500")}},
		DepositPaid: &deposit,
	})
	s.Require().NoError(err)

	s.True(dec("24000").Equal(b.OriginalPrice))
	s.True(dec("2400").Equal(b.DiscountAmount))
	s.True(dec("21600").Equal(b.DiscountedPrice))
	s.True(dec("23100").Equal(b.GrandTotal))
	s.True(dec("18100").Equal(b.BalanceDue))
	s.Require().NotNil(b.AppliedDiscount)
	s.Equal("Loyalty", b.AppliedDiscount.Name)
	s.Empty(s.store.Bookings)
}

func (s *BookingQueriesTestSuite) TestQuote_WithoutDates() {
	packageID := s.store.AddPackage("Basic", "8000")

	b, err := s.q.Quote(s.ctx, queries.QuoteInput{PackageID: &packageID})
	s.Require().NoError(err)
	s.Equal(0, b.ExtraHours)
	s.True(dec("8000").Equal(b.GrandTotal))
}

func (s *BookingQueriesTestSuite) TestQuote_Invalid() {
	_, err := s.q.Quote(s.ctx, queries.QuoteInput{Pax: -3})
	s.True(errs.Is(err, errs.ErrInvalidInput))

	_, err = s.q.Quote(s.ctx, queries.QuoteInput{StartAt: at(20, 10)})
	s.True(errs.Is(err, errs.ErrInvalidInput))
}

func (s *BookingQueriesTestSuite) TestCheckAvailability() {
	itemID := s.store.AddItem("Chairs", 10, 0)
	other := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 8), EndAt: at(20, 22), Pax: 20},
		shared.AllocationLine{ItemID: itemID, Quantity: 6})

	s.Run("shortfall cites what is left", func() {
		res, err := s.q.CheckAvailability(s.ctx, queries.AvailabilityInput{
			StartAt: at(20, 10),
			EndAt:   at(20, 17),
			Items:   []shared.ItemLine{{ItemID: itemID, Quantity: 5}},
		})
		s.Require().NoError(err)
		report := res.Items[0].Report
		s.Equal(4, report.Available)
		s.Equal(6, report.UsedOnOverlap)
		s.Len(report.Conflicts, 1)
	})

	s.Run("excluding the booking being edited", func() {
		res, err := s.q.CheckAvailability(s.ctx, queries.AvailabilityInput{
			ExcludeBookingID: &other,
			StartAt:          at(20, 10),
			EndAt:            at(20, 17),
			Items:            []shared.ItemLine{{ItemID: itemID, Quantity: 5}},
		})
		s.Require().NoError(err)
		s.Empty(res.Items[0].Report.Conflicts)
		s.Equal(10, res.Items[0].Report.Available)
	})

	s.Run("unknown item", func() {
		_, err := s.q.CheckAvailability(s.ctx, queries.AvailabilityInput{
			Items: []shared.ItemLine{{ItemID: uuid.New(), Quantity: 1}},
		})
		s.True(errs.Is(err, errs.ErrItemNotFound))
	})
}

func (s *BookingQueriesTestSuite) TestVenueUnavailableDays() {
	venueID := s.store.AddVenue("Garden")
	held := s.store.AddBooking(shared.BookingSnapshot{VenueID: &venueID, StartAt: at(20, 18), EndAt: at(21, 2), Pax: 20})
	s.store.AddBooking(shared.BookingSnapshot{VenueID: &venueID, StartAt: at(25, 10), EndAt: at(25, 15), Pax: 20, Status: booking.StatusCanceled})

	want := []period.Day{{Year: 2025, Month: time.July, Day: 20}, {Year: 2025, Month: time.July, Day: 21}}

	days, err := s.q.VenueUnavailableDays(s.ctx, venueID, nil)
	s.Require().NoError(err)
	s.Equal(want, days)
	s.Equal(want, s.cache.days[venueID])

	s.Run("served from cache", func() {
		s.cache.days[venueID] = []period.Day{{Year: 2030, Month: time.January, Day: 1}}
		days, err := s.q.VenueUnavailableDays(s.ctx, venueID, nil)
		s.Require().NoError(err)
		s.Equal(2030, days[0].Year)
	})

	s.Run("exclude bypasses the cache", func() {
		gets := s.cache.gets
		days, err := s.q.VenueUnavailableDays(s.ctx, venueID, &held)
		s.Require().NoError(err)
		s.Empty(days)
		s.Equal(gets, s.cache.gets)
	})

	s.Run("unknown venue", func() {
		_, err := s.q.VenueUnavailableDays(s.ctx, uuid.New(), nil)
		s.True(errs.Is(err, errs.ErrVenueNotFound))
	})
}

func (s *BookingQueriesTestSuite) TestGetBilling() {
	id := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 10), EndAt: at(20, 15), Pax: 20, Status: booking.StatusConfirmed})
	s.store.Billings[id] = shared.BillingSnapshot{
		BookingID:   id,
		GrandTotal:  dec("20000"),
		DepositPaid: dec("5000"),
		BalanceDue:  dec("15000"),
	}
	s.store.AddPayment(id, "4000")
	s.store.AddPayment(id, "1000")

	view, err := s.q.GetBilling(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("confirmed", view.Status)
	s.Equal(2, view.PaymentCount)
	s.True(dec("5000").Equal(view.PaymentsTotal))
	s.True(dec("10000").Equal(view.Outstanding))

	s.Run("no billing yet", func() {
		draftID := s.store.AddBooking(shared.BookingSnapshot{Status: booking.StatusDraft})
		_, err := s.q.GetBilling(s.ctx, draftID)
		s.True(errs.Is(err, errs.ErrBillingNotFound))
	})

	s.Run("unknown booking", func() {
		_, err := s.q.GetBilling(s.ctx, uuid.New())
		s.True(errs.Is(err, errs.ErrBookingNotFound))
	})
}
