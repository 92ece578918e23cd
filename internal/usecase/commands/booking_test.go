//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/inventory"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/usecase/commands"
	"venue-booking/internal/usecase/shared"
	"venue-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingCache struct {
	invalidated []uuid.UUID
}

func (c *recordingCache) Get(context.Context, uuid.UUID) ([]period.Day, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(context.Context, uuid.UUID, []period.Day) error { return nil }

func (c *recordingCache) Invalidate(_ context.Context, ids ...uuid.UUID) error {
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

func at(day, hour int) *time.Time {
	t := time.Date(2025, time.July, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

type BookingCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	cache *recordingCache
	clock *clock.MockClock
	uc    commands.BookingCommands
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.cache = &recordingCache{}
	s.clock = clock.NewMockClock(*at(1, 12))

	cfg := config.NewTestConfig().Engine
	cfg.TimeZone = "UTC"
	engine, err := shared.NewEngine(cfg, s.clock)
	s.Require().NoError(err)

	s.uc = commands.NewBookingUseCase(s.store, engine, s.cache, s.clock)
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) baseInput() commands.SaveBookingInput {
	return commands.SaveBookingInput{
		StartAt: at(20, 10),
		EndAt:   at(20, 17),
		Pax:     intPtr(80),
	}
}

// ================================================================================
// SaveBooking: create
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreate_PricesAndPersists() {
	venueID := s.store.AddVenue("Garden Hall")
	packageID := s.store.AddPackage("Wedding", "20000")
	discountID := s.store.AddPercentDiscount("Loyalty", "10")

	in := s.baseInput()
	in.VenueID = &venueID
	in.PackageID = &packageID
	in.Discount = &shared.DiscountInput{Mode: pricing.DiscountPredefined, DiscountID: &discountID}
	in.Charges = []shared.ChargeInput{{Name: "Lights", Amount: dec("1500")}}
	in.DepositPaid = decPtr("5000")

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)

	s.True(res.Created)
	s.NotEqual(uuid.Nil, res.BookingID)
	s.True(dec("24000").Equal(res.Breakdown.OriginalPrice))
	s.True(dec("2400").Equal(res.Breakdown.DiscountAmount))
	s.True(dec("23100").Equal(res.Breakdown.GrandTotal))
	s.True(dec("18100").Equal(res.Breakdown.BalanceDue))
	// The deposit counts as a payment on a future event.
	s.Equal(booking.StatusConfirmed, res.Status)

	saved := s.store.Bookings[res.BookingID]
	s.Equal(booking.StatusConfirmed, saved.Status)
	s.Equal(80, saved.Pax)
	s.Require().Len(saved.Charges, 1)

	billing := s.store.Billings[res.BookingID]
	s.Require().NotNil(billing.DiscountID)
	s.Equal(discountID, *billing.DiscountID)
	s.True(dec("23100").Equal(billing.GrandTotal))

	s.Contains(s.cache.invalidated, venueID)
}

func (s *BookingCommandsTestSuite) TestCreate_MissingReferencesDegrade() {
	missingPackage := uuid.New()
	missingDiscount := uuid.New()

	in := s.baseInput()
	in.PackageID = &missingPackage
	in.Discount = &shared.DiscountInput{Mode: pricing.DiscountPredefined, DiscountID: &missingDiscount}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)

	s.True(res.Breakdown.BasePrice.IsZero())
	s.True(dec("4000").Equal(res.Breakdown.OriginalPrice))
	s.True(res.Breakdown.DiscountAmount.IsZero())
	s.Nil(s.store.Billings[res.BookingID].DiscountID)
}

func (s *BookingCommandsTestSuite) TestCreate_CustomDiscountIsCommitted() {
	packageID := s.store.AddPackage("Debut", "10000")

	in := s.baseInput()
	in.EndAt = at(20, 14)
	in.PackageID = &packageID
	in.Discount = &shared.DiscountInput{
		Mode:   pricing.DiscountCustom,
		Custom: &shared.CustomDiscountInput{Name: "Friends", Kind: pricing.KindAmount, Value: dec("1500")},
	}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.True(dec("8500").Equal(res.Breakdown.DiscountedPrice))

	billing := s.store.Billings[res.BookingID]
	s.Require().NotNil(billing.DiscountID)
	committed, ok := s.store.Discounts[*billing.DiscountID]
	s.Require().True(ok)
	s.Equal("Friends", committed.Name)
	s.Require().NotNil(committed.AmountOff)
	s.True(dec("1500").Equal(*committed.AmountOff))
}

func (s *BookingCommandsTestSuite) TestCreate_InHouseCateringFromMenu() {
	menuID := s.store.AddMenu("Buffet A", "450")

	in := s.baseInput()
	in.EndAt = at(20, 14)
	in.Pax = intPtr(100)
	in.Catering = &shared.CateringInput{Mode: pricing.CateringInHouse, MenuID: &menuID}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.True(dec("45000").Equal(res.Breakdown.CateringCost))
	s.Equal(pricing.CateringInHouse, s.store.Bookings[res.BookingID].CateringMode)
}

func (s *BookingCommandsTestSuite) TestCreate_Validation() {
	itemID := s.store.AddItem("Chairs", 10, 0)

	cases := []struct {
		name   string
		mutate func(in *commands.SaveBookingInput)
		mark   error
	}{
		{name: "negative pax", mutate: func(in *commands.SaveBookingInput) { in.Pax = intPtr(-1) }, mark: errs.ErrInvalidInput},
		{name: "zero quantity", mutate: func(in *commands.SaveBookingInput) {
			in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 0}}
		}, mark: errs.ErrInvalidInput},
		{name: "missing item id", mutate: func(in *commands.SaveBookingInput) {
			in.Items = []shared.ItemLine{{Quantity: 2}}
		}, mark: errs.ErrInvalidInput},
		{name: "negative charge", mutate: func(in *commands.SaveBookingInput) {
			in.Charges = []shared.ChargeInput{{Name: "Fee", Amount: dec("-1")}}
		}, mark: errs.ErrInvalidInput},
		{name: "negative deposit", mutate: func(in *commands.SaveBookingInput) { in.DepositPaid = decPtr("-5") }, mark: errs.ErrInvalidInput},
		{name: "start without end", mutate: func(in *commands.SaveBookingInput) { in.EndAt = nil }, mark: errs.ErrInvalidInput},
		{name: "end before start", mutate: func(in *commands.SaveBookingInput) { in.EndAt = at(19, 10) }, mark: errs.ErrInvalidInput},
		{name: "unknown catering mode", mutate: func(in *commands.SaveBookingInput) {
			in.Catering = &shared.CateringInput{Mode: "potluck"}
		}, mark: errs.ErrInvalidInput},
		{name: "custom discount without payload", mutate: func(in *commands.SaveBookingInput) {
			in.Discount = &shared.DiscountInput{Mode: pricing.DiscountCustom}
		}, mark: errs.ErrInvalidInput},
		{name: "zero pax on a final booking", mutate: func(in *commands.SaveBookingInput) { in.Pax = intPtr(0) }, mark: errs.ErrDomainValidation},
		{name: "no dates on a final booking", mutate: func(in *commands.SaveBookingInput) {
			in.StartAt, in.EndAt = nil, nil
		}, mark: errs.ErrDomainValidation},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			in := s.baseInput()
			tc.mutate(&in)

			_, err := s.uc.SaveBooking(s.ctx, in)
			s.Require().Error(err)
			s.True(errs.Is(err, tc.mark), "got %v", err)
		})
	}
	s.Equal(0, s.store.WithinCalls)
}

func (s *BookingCommandsTestSuite) TestCreate_DraftSkipsFinalize() {
	res, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{Draft: boolPtr(true)})
	s.Require().NoError(err)

	s.Equal(booking.StatusDraft, res.Status)
	saved := s.store.Bookings[res.BookingID]
	s.Nil(saved.StartAt)
	s.Equal(booking.StatusDraft, saved.Status)
}

func (s *BookingCommandsTestSuite) TestCreate_UnknownItem() {
	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: uuid.New(), Quantity: 1}}

	_, err := s.uc.SaveBooking(s.ctx, in)
	s.True(errs.Is(err, errs.ErrItemNotFound))
}

// ================================================================================
// SaveBooking: availability gate
// ================================================================================

func (s *BookingCommandsTestSuite) TestAcknowledgmentGate() {
	itemID := s.store.AddItem("Chairs", 20, 0)
	existing := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 8), EndAt: at(20, 22), Pax: 50},
		shared.AllocationLine{ItemID: itemID, Quantity: 15})

	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 15}}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrAcknowledgmentRequired))
	s.Require().NotNil(res)
	s.Equal(uuid.Nil, res.BookingID)
	s.NotEmpty(res.AcknowledgmentToken)
	s.Equal(0, s.store.WithinCalls)

	s.Require().Len(res.Availability.Items, 1)
	report := res.Availability.Items[0].Report
	s.Require().Len(report.Conflicts, 1)
	s.Equal(15, report.Conflicts[0].Quantity)
	s.Equal(existing, *report.Conflicts[0].BookingID)
	s.Require().Len(report.Warnings, 1)
	s.Equal(inventory.KindInsufficientStock, report.Warnings[0].Kind)
	s.Equal(5, report.Warnings[0].Available)

	s.Run("a stale token is rejected", func() {
		retry := in
		retry.AcknowledgmentToken = "not-the-token"
		_, err := s.uc.SaveBooking(s.ctx, retry)
		s.True(errs.Is(err, errs.ErrAcknowledgmentRequired))
	})

	s.Run("changing the quantity re-triggers the gate", func() {
		retry := in
		retry.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 16}}
		retry.AcknowledgmentToken = res.AcknowledgmentToken
		again, err := s.uc.SaveBooking(s.ctx, retry)
		s.True(errs.Is(err, errs.ErrAcknowledgmentRequired))
		s.NotEqual(res.AcknowledgmentToken, again.AcknowledgmentToken)
	})

	s.Run("echoing the token commits the overbooking", func() {
		retry := in
		retry.AcknowledgmentToken = res.AcknowledgmentToken
		saved, err := s.uc.SaveBooking(s.ctx, retry)
		s.Require().NoError(err)
		s.Equal(15, s.store.Allocation(saved.BookingID, itemID))
		s.Equal(int64(1), s.store.Items[itemID].AllocationVersion)
	})
}

func (s *BookingCommandsTestSuite) TestVenueConflictIsGated() {
	venueID := s.store.AddVenue("Rooftop")
	s.store.AddBooking(shared.BookingSnapshot{VenueID: &venueID, StartAt: at(19, 18), EndAt: at(20, 2), Pax: 40})

	in := s.baseInput()
	in.VenueID = &venueID

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.True(errs.Is(err, errs.ErrAcknowledgmentRequired))
	s.Require().NotNil(res.Availability.Venue)
	s.Len(res.Availability.Venue.Conflicts, 1)
}

func (s *BookingCommandsTestSuite) TestCanceledBookingsDoNotConflict() {
	itemID := s.store.AddItem("Tables", 10, 0)
	s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 8), EndAt: at(20, 22), Pax: 50, Status: booking.StatusCanceled},
		shared.AllocationLine{ItemID: itemID, Quantity: 10})

	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 5}}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.Empty(res.Availability.Items[0].Report.Conflicts)
}

func (s *BookingCommandsTestSuite) TestWarningsDoNotBlock() {
	itemID := s.store.AddItem("Plates", 10, 0)

	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 12}}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)

	report := res.Availability.Items[0].Report
	s.Empty(report.Conflicts)
	s.Require().NotEmpty(report.Warnings)
	s.Equal(12, s.store.Allocation(res.BookingID, itemID))
}

func (s *BookingCommandsTestSuite) TestDuplicateItemLinesAreMerged() {
	itemID := s.store.AddItem("Plates", 100, 0)

	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 12}, {ItemID: itemID, Quantity: 8}}

	res, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(20, s.store.Allocation(res.BookingID, itemID))
}

func (s *BookingCommandsTestSuite) TestStaleAvailability() {
	itemID := s.store.AddItem("Chairs", 50, 0)
	s.store.BeforeWithin = func() {
		// Another booking commits allocations between the check and the write.
		s.store.Items[itemID].AllocationVersion++
	}

	in := s.baseInput()
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 10}}

	_, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrStaleAvailability))
	s.Empty(s.store.Bookings)
}

func (s *BookingCommandsTestSuite) TestStaleVenueAvailability() {
	venueID := s.store.AddVenue("Garden Hall")
	s.store.BeforeWithin = func() {
		// Another booking takes the venue between the check and the write.
		s.store.BumpVenue(venueID)
	}

	in := s.baseInput()
	in.VenueID = &venueID

	_, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrStaleAvailability))
	s.Empty(s.store.Bookings)
}

func (s *BookingCommandsTestSuite) TestSaveBumpsVenueVersions() {
	oldVenue := s.store.AddVenue("A")
	newVenue := s.store.AddVenue("B")

	in := s.baseInput()
	in.VenueID = &oldVenue
	created, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(int64(1), s.store.VenueVersion(oldVenue))

	_, err = s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, VenueID: &newVenue})
	s.Require().NoError(err)
	// Both the released and the taken venue change.
	s.Equal(int64(2), s.store.VenueVersion(oldVenue))
	s.Equal(int64(1), s.store.VenueVersion(newVenue))
}

// ================================================================================
// SaveBooking: edit
// ================================================================================

func (s *BookingCommandsTestSuite) TestEdit_KeepsOmittedFields() {
	venueID := s.store.AddVenue("Garden Hall")
	packageID := s.store.AddPackage("Wedding", "20000")
	discountID := s.store.AddPercentDiscount("Loyalty", "10")
	itemID := s.store.AddItem("Chairs", 20, 0)

	in := s.baseInput()
	in.VenueID = &venueID
	in.PackageID = &packageID
	in.Discount = &shared.DiscountInput{Mode: pricing.DiscountPredefined, DiscountID: &discountID}
	in.DepositPaid = decPtr("5000")
	in.Items = []shared.ItemLine{{ItemID: itemID, Quantity: 15}}
	created, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)

	edit := commands.SaveBookingInput{BookingID: &created.BookingID, Pax: intPtr(120), Items: []shared.ItemLine{{ItemID: itemID, Quantity: 18}}}
	updated, err := s.uc.SaveBooking(s.ctx, edit)
	s.Require().NoError(err)

	s.False(updated.Created)
	s.Equal(created.BookingID, updated.BookingID)
	// Its own superseded allocation of 15 is not a conflict.
	s.Empty(updated.Availability.Items[0].Report.Conflicts)
	s.Equal(18, s.store.Allocation(created.BookingID, itemID))

	saved := s.store.Bookings[created.BookingID]
	s.Equal(120, saved.Pax)
	s.Equal(*at(20, 10), *saved.StartAt)
	s.Equal(venueID, *saved.VenueID)

	// Discount and deposit live on the billing row and survive the edit.
	s.True(dec("2400").Equal(updated.Breakdown.DiscountAmount))
	s.True(dec("5000").Equal(updated.Breakdown.DepositPaid))
}

func (s *BookingCommandsTestSuite) TestEdit_MovingVenueInvalidatesBoth() {
	oldVenue := s.store.AddVenue("A")
	newVenue := s.store.AddVenue("B")

	in := s.baseInput()
	in.VenueID = &oldVenue
	created, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.cache.invalidated = nil

	_, err = s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, VenueID: &newVenue})
	s.Require().NoError(err)
	s.ElementsMatch([]uuid.UUID{oldVenue, newVenue}, s.cache.invalidated)
}

func (s *BookingCommandsTestSuite) TestEdit_ChangingOnlyTheEnd() {
	created, err := s.uc.SaveBooking(s.ctx, s.baseInput())
	s.Require().NoError(err)

	updated, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, EndAt: at(20, 19)})
	s.Require().NoError(err)
	s.Equal(4, updated.Breakdown.ExtraHours)
}

func (s *BookingCommandsTestSuite) TestEdit_Errors() {
	s.Run("unknown booking", func() {
		missing := uuid.New()
		_, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &missing})
		s.True(errs.Is(err, errs.ErrBookingNotFound))
	})

	s.Run("closed booking", func() {
		id := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 10), EndAt: at(20, 17), Pax: 10, Status: booking.StatusArchived})
		_, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &id, Pax: intPtr(20)})
		s.True(errs.Is(err, errs.ErrBookingFinalized))
	})
}

func (s *BookingCommandsTestSuite) TestEdit_FinalizingADraft() {
	created, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{Draft: boolPtr(true), Pax: intPtr(30)})
	s.Require().NoError(err)
	s.Equal(booking.StatusDraft, created.Status)

	final, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{
		BookingID: &created.BookingID,
		StartAt:   at(20, 10),
		EndAt:     at(20, 15),
		Draft:     boolPtr(false),
	})
	s.Require().NoError(err)
	s.Equal(booking.StatusPending, final.Status)
	s.Equal(booking.StatusPending, s.store.Bookings[created.BookingID].Status)
}

func (s *BookingCommandsTestSuite) TestEdit_DraftStaysDraft() {
	s.Run("dated draft keeps its status on a partial edit", func() {
		in := s.baseInput()
		in.Draft = boolPtr(true)
		created, err := s.uc.SaveBooking(s.ctx, in)
		s.Require().NoError(err)
		s.Require().Equal(booking.StatusDraft, created.Status)

		updated, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, Pax: intPtr(40)})
		s.Require().NoError(err)
		s.Equal(booking.StatusDraft, updated.Status)
		s.Equal(booking.StatusDraft, s.store.Bookings[created.BookingID].Status)
		s.Equal(40, s.store.Bookings[created.BookingID].Pax)
	})

	s.Run("undated draft accepts edits without dates", func() {
		created, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{Draft: boolPtr(true)})
		s.Require().NoError(err)

		updated, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, Pax: intPtr(40)})
		s.Require().NoError(err)
		s.Equal(booking.StatusDraft, updated.Status)
	})

	s.Run("finalizing an undated draft still requires dates", func() {
		created, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{Draft: boolPtr(true), Pax: intPtr(40)})
		s.Require().NoError(err)

		_, err = s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, Draft: boolPtr(false)})
		s.True(errs.Is(err, errs.ErrDomainValidation))
		s.Equal(booking.StatusDraft, s.store.Bookings[created.BookingID].Status)
	})

	s.Run("confirmed booking is not turned into a draft by an edit", func() {
		created, err := s.uc.SaveBooking(s.ctx, s.baseInput())
		s.Require().NoError(err)

		updated, err := s.uc.SaveBooking(s.ctx, commands.SaveBookingInput{BookingID: &created.BookingID, Pax: intPtr(90)})
		s.Require().NoError(err)
		s.Equal(booking.StatusPending, updated.Status)
	})
}

// ================================================================================
// RecordPayment / SetManualStatus / RefreshStatuses
// ================================================================================

func (s *BookingCommandsTestSuite) TestRecordPayment() {
	packageID := s.store.AddPackage("Wedding", "20000")
	in := s.baseInput()
	in.EndAt = at(20, 15)
	in.PackageID = &packageID
	created, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(booking.StatusPending, created.Status)

	s.Run("rejects non-positive amounts", func() {
		_, err := s.uc.RecordPayment(s.ctx, commands.RecordPaymentInput{BookingID: created.BookingID, Amount: decimal.Zero})
		s.True(errs.Is(err, errs.ErrInvalidInput))
	})

	s.Run("unknown booking", func() {
		_, err := s.uc.RecordPayment(s.ctx, commands.RecordPaymentInput{BookingID: uuid.New(), Amount: dec("100")})
		s.True(errs.Is(err, errs.ErrBookingNotFound))
	})

	s.Run("first payment confirms", func() {
		res, err := s.uc.RecordPayment(s.ctx, commands.RecordPaymentInput{BookingID: created.BookingID, Amount: dec("5000")})
		s.Require().NoError(err)
		s.NotEqual(uuid.Nil, res.PaymentID)
		s.Equal(booking.StatusConfirmed, res.Status)
		s.Equal(booking.StatusConfirmed, s.store.Bookings[created.BookingID].Status)
	})

	s.Run("full payment after the event completes", func() {
		s.clock.Set(*at(25, 9))
		res, err := s.uc.RecordPayment(s.ctx, commands.RecordPaymentInput{BookingID: created.BookingID, Amount: dec("15000")})
		s.Require().NoError(err)
		s.Equal(booking.StatusCompleted, res.Status)
		s.Equal(2, s.store.PaymentCount(created.BookingID))
	})
}

func (s *BookingCommandsTestSuite) TestManualStatusIsSticky() {
	venueID := s.store.AddVenue("Hall")
	in := s.baseInput()
	in.VenueID = &venueID
	created, err := s.uc.SaveBooking(s.ctx, in)
	s.Require().NoError(err)
	s.cache.invalidated = nil

	venueVersion := s.store.VenueVersion(venueID)

	s.Require().NoError(s.uc.SetManualStatus(s.ctx, created.BookingID, booking.StatusCanceled))
	s.Equal(booking.StatusCanceled, s.store.Bookings[created.BookingID].Status)
	s.Equal([]uuid.UUID{venueID}, s.cache.invalidated)
	// Releasing the venue is visible to concurrent checks.
	s.Equal(venueVersion+1, s.store.VenueVersion(venueID))

	s.Require().NoError(s.uc.SetManualStatus(s.ctx, created.BookingID, booking.StatusArchived))
	s.Equal(venueVersion+1, s.store.VenueVersion(venueID))

	res, err := s.uc.RecordPayment(s.ctx, commands.RecordPaymentInput{BookingID: created.BookingID, Amount: dec("1000")})
	s.Require().NoError(err)
	s.Equal(booking.StatusCanceled, res.Status)

	err = s.uc.SetManualStatus(s.ctx, uuid.New(), booking.StatusArchived)
	s.True(errs.Is(err, errs.ErrBookingNotFound))
}

func (s *BookingCommandsTestSuite) TestRefreshStatuses() {
	inProgress := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(1, 8), EndAt: at(2, 22), Pax: 10})
	unchanged := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(20, 8), EndAt: at(20, 22), Pax: 10})
	manual := s.store.AddBooking(shared.BookingSnapshot{StartAt: at(1, 8), EndAt: at(1, 22), Pax: 10, Status: booking.StatusArchived})

	changed, err := s.uc.RefreshStatuses(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, changed)

	s.Equal(booking.StatusInProgress, s.store.Bookings[inProgress].Status)
	s.Equal(booking.StatusPending, s.store.Bookings[unchanged].Status)
	s.Equal(booking.StatusArchived, s.store.Bookings[manual].Status)

	again, err := s.uc.RefreshStatuses(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, again)
}

func TestAcknowledgmentToken(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()
	venueID := uuid.New()
	p, err := period.New(*at(20, 10), *at(20, 17))
	require.NoError(t, err)

	base := commands.AcknowledgmentToken(nil, &venueID, &p, []shared.ItemLine{{ItemID: itemA, Quantity: 3}, {ItemID: itemB, Quantity: 4}}, time.UTC)

	reordered := commands.AcknowledgmentToken(nil, &venueID, &p, []shared.ItemLine{{ItemID: itemB, Quantity: 4}, {ItemID: itemA, Quantity: 3}}, time.UTC)
	assert.Equal(t, base, reordered)

	sameDayOtherHours, err := period.New(*at(20, 8), *at(20, 21))
	require.NoError(t, err)
	assert.Equal(t, base, commands.AcknowledgmentToken(nil, &venueID, &sameDayOtherHours, []shared.ItemLine{{ItemID: itemA, Quantity: 3}, {ItemID: itemB, Quantity: 4}}, time.UTC))

	otherDay, err := period.New(*at(21, 10), *at(21, 17))
	require.NoError(t, err)
	assert.NotEqual(t, base, commands.AcknowledgmentToken(nil, &venueID, &otherDay, []shared.ItemLine{{ItemID: itemA, Quantity: 3}, {ItemID: itemB, Quantity: 4}}, time.UTC))
	assert.NotEqual(t, base, commands.AcknowledgmentToken(nil, &venueID, &p, []shared.ItemLine{{ItemID: itemA, Quantity: 2}, {ItemID: itemB, Quantity: 4}}, time.UTC))
	assert.NotEqual(t, base, commands.AcknowledgmentToken(nil, nil, &p, []shared.ItemLine{{ItemID: itemA, Quantity: 3}, {ItemID: itemB, Quantity: 4}}, time.UTC))
}
