//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestVenue(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	venueID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO venues (id, name) VALUES ($1, $2)", venueID, name)
	require.NoError(t, err)
	return venueID
}

// price is a decimal literal such as "20000" or "450.50"
func CreateTestPackage(t *testing.T, db DBLike, name, price string) uuid.UUID {
	t.Helper()

	packageID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO packages (id, name, price) VALUES ($1, $2, $3::numeric)", packageID, name, price)
	require.NoError(t, err)
	return packageID
}

func CreateTestMenu(t *testing.T, db DBLike, name, pricePerPax string) uuid.UUID {
	t.Helper()

	menuID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO menus (id, name, price_per_pax) VALUES ($1, $2, $3::numeric)", menuID, name, pricePerPax)
	require.NoError(t, err)
	return menuID
}

func CreateTestPercentDiscount(t *testing.T, db DBLike, name, percent string) uuid.UUID {
	t.Helper()

	discountID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO discounts (id, name, percent_off) VALUES ($1, $2, $3::numeric)", discountID, name, percent)
	require.NoError(t, err)
	return discountID
}

func CreateTestItem(t *testing.T, db DBLike, name string, total, outOfService int) uuid.UUID {
	t.Helper()

	itemID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO items (id, name, total_quantity, out_of_service) VALUES ($1, $2, $3, $4)",
		itemID, name, total, outOfService)
	require.NoError(t, err)
	return itemID
}

func ItemVersion(t *testing.T, db DBLike, itemID uuid.UUID) int64 {
	t.Helper()

	var v int64
	err := db.QueryRow(context.Background(), "SELECT allocation_version FROM items WHERE id = $1", itemID).Scan(&v)
	require.NoError(t, err)
	return v
}

func VenueVersion(t *testing.T, db DBLike, venueID uuid.UUID) int64 {
	t.Helper()

	var v int64
	err := db.QueryRow(context.Background(), "SELECT allocation_version FROM venues WHERE id = $1", venueID).Scan(&v)
	require.NoError(t, err)
	return v
}

// CountVenueBookings counts bookings on a venue, whatever their status.
func CountVenueBookings(t *testing.T, db DBLike, venueID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM bookings WHERE venue_id = $1", venueID).Scan(&n)
	require.NoError(t, err)
	return n
}

// AllocatedQuantity sums committed quantities of an item across all bookings.
func AllocatedQuantity(t *testing.T, db DBLike, itemID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT COALESCE(SUM(quantity), 0) FROM resource_allocations WHERE item_id = $1", itemID).Scan(&n)
	require.NoError(t, err)
	return n
}

func BookingStatusCode(t *testing.T, db DBLike, bookingID uuid.UUID) int {
	t.Helper()

	var code int
	err := db.QueryRow(context.Background(), "SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&code)
	require.NoError(t, err)
	return code
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
