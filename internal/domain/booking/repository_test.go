package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"umrahstay/internal/database"
	"umrahstay/internal/domain"
	"umrahstay/internal/domain/hotel"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, hotel.Models()...))
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedRoom creates a hotel with one room priced at price and returns the
// room's id and hotel id.
func seedRoom(t *testing.T, db *gorm.DB, price float64) (roomID, hotelID int64) {
	t.Helper()
	h, err := hotel.NewRepository(db).Create(context.Background(), &domain.Hotel{
		Name:     "فندق دار التوحيد",
		Location: "مكة المكرمة",
		Rooms: []domain.Room{
			{Name: "غرفة مزدوجة", Capacity: domain.Capacity{Adults: 2}, Price: price, Status: domain.RoomActive},
		},
	})
	require.NoError(t, err)
	require.Len(t, h.Rooms, 1)
	return h.Rooms[0].ID, h.ID
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newBooking(userID, hotelID, roomID int64, in, out string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		Reference:  "ref-" + in + "-" + out + "-" + string(status),
		UserID:     userID,
		HotelID:    hotelID,
		RoomID:     roomID,
		CheckIn:    day(in),
		CheckOut:   day(out),
		Adults:     2,
		TotalPrice: 100,
		Status:     status,
		Companions: []domain.Companion{{Name: "فاطمة", Relationship: "زوجة", Age: 34}},
	}
}

func countBookings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&bookingModel{}).Count(&n).Error)
	return n
}

func TestOverlapConstraintSQL(t *testing.T) {
	sql := overlapConstraintSQL()
	assert.Contains(t, sql, "daterange(check_in, GREATEST(check_out, check_in + 1), '[)')")
	assert.NotContains(t, sql, "daterange(check_in, check_out,")
	assert.Contains(t, sql, "DROP CONSTRAINT IF EXISTS "+legacyOverlapConstraint)
	assert.Contains(t, sql, "WHERE (status = 'CONFIRMED')")
}

func TestRepository_CreateIfFree_SameDayStayBlocksItsDate(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	sameDay := newBooking(1, hotelID, roomID, "2026-05-10", "2026-05-10", domain.BookingConfirmed)
	require.NoError(t, repo.CreateIfFree(ctx, sameDay))

	err := repo.CreateIfFree(ctx, newBooking(2, hotelID, roomID, "2026-05-10", "2026-05-12", domain.BookingConfirmed))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), countBookings(t, db))
}

func TestRepository_GetRoom(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	roomID, hotelID := seedRoom(t, db, 150)

	room, err := repo.GetRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, hotelID, room.HotelID)
	assert.Equal(t, 150.0, room.Price)
	assert.Equal(t, domain.RoomActive, room.Status)

	_, err = repo.GetRoom(context.Background(), roomID+100)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRepository_CreateIfFree_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	b := newBooking(7, hotelID, roomID, "2026-01-10", "2026-01-15", domain.BookingPending)
	require.NoError(t, repo.CreateIfFree(ctx, b))
	require.NotZero(t, b.ID)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Reference, got.Reference)
	assert.True(t, day("2026-01-10").Equal(got.CheckIn))
	assert.True(t, day("2026-01-15").Equal(got.CheckOut))
	assert.Equal(t, domain.BookingPending, got.Status)
	assert.Equal(t, "فندق دار التوحيد", got.HotelName)
	assert.Equal(t, "غرفة مزدوجة", got.RoomName)
	require.Len(t, got.Companions, 1)
	assert.Equal(t, "فاطمة", got.Companions[0].Name)

	_, err = repo.GetByID(ctx, b.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ReadsCarryEveryColumn(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	b := newBooking(7, hotelID, roomID, "2026-01-10", "2026-01-15", domain.BookingPending)
	b.Children = 1
	b.GuestName = "عبدالله"
	b.GuestEmail = "abdullah@example.com"
	require.NoError(t, repo.CreateIfFree(ctx, b))

	check := func(t *testing.T, got domain.Booking) {
		t.Helper()
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, int64(7), got.UserID)
		assert.Equal(t, hotelID, got.HotelID)
		assert.Equal(t, roomID, got.RoomID)
		assert.Equal(t, 2, got.Adults)
		assert.Equal(t, 1, got.Children)
		assert.Equal(t, 100.0, got.TotalPrice)
		assert.Equal(t, "عبدالله", got.GuestName)
		assert.Equal(t, "abdullah@example.com", got.GuestEmail)
		assert.False(t, got.CreatedAt.IsZero())
	}

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	check(t, *got)

	list, err := repo.List(ctx, ListFilter{UserID: 7})
	require.NoError(t, err)
	require.Len(t, list, 1)
	check(t, list[0])

	none, err := repo.List(ctx, ListFilter{UserID: 8})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_CreateIfFree_RejectsOverlapWithConfirmed(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	require.NoError(t, repo.CreateIfFree(ctx, newBooking(1, hotelID, roomID, "2026-01-12", "2026-01-14", domain.BookingConfirmed)))

	err := repo.CreateIfFree(ctx, newBooking(2, hotelID, roomID, "2026-01-10", "2026-01-15", domain.BookingPending))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), countBookings(t, db))
}

func TestRepository_CreateIfFree_AllowsTouchingAndPendingOverlap(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	require.NoError(t, repo.CreateIfFree(ctx, newBooking(1, hotelID, roomID, "2026-01-10", "2026-01-12", domain.BookingConfirmed)))
	// Check-in on the previous guest's check-out day.
	require.NoError(t, repo.CreateIfFree(ctx, newBooking(2, hotelID, roomID, "2026-01-12", "2026-01-14", domain.BookingPending)))
	// Pending bookings do not block each other.
	require.NoError(t, repo.CreateIfFree(ctx, newBooking(3, hotelID, roomID, "2026-01-13", "2026-01-16", domain.BookingPending)))

	assert.Equal(t, int64(3), countBookings(t, db))
}

func TestRepository_CreateIfFree_OtherRoomIsIndependent(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomA, hotelA := seedRoom(t, db, 150)
	roomB, hotelB := seedRoom(t, db, 200)

	require.NoError(t, repo.CreateIfFree(ctx, newBooking(1, hotelA, roomA, "2026-01-10", "2026-01-15", domain.BookingConfirmed)))
	require.NoError(t, repo.CreateIfFree(ctx, newBooking(1, hotelB, roomB, "2026-01-10", "2026-01-15", domain.BookingPending)))
}

func TestRepository_CreateIfFree_MissingRoom(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)

	err := repo.CreateIfFree(context.Background(), newBooking(1, 1, 999, "2026-01-10", "2026-01-12", domain.BookingPending))
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, int64(0), countBookings(t, db))
}

func TestRepository_UpdateStatus(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	first := newBooking(1, hotelID, roomID, "2026-02-01", "2026-02-05", domain.BookingPending)
	second := newBooking(2, hotelID, roomID, "2026-02-03", "2026-02-06", domain.BookingPending)
	require.NoError(t, repo.CreateIfFree(ctx, first))
	require.NoError(t, repo.CreateIfFree(ctx, second))

	updated, prev, err := repo.UpdateStatus(ctx, first.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, prev)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)

	t.Run("confirming an overlapping booking conflicts", func(t *testing.T) {
		_, _, err := repo.UpdateStatus(ctx, second.ID, domain.BookingConfirmed)
		assert.ErrorIs(t, err, ErrConflict)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingPending, got.Status)
	})

	t.Run("cancelled cannot move again", func(t *testing.T) {
		_, prev, err := repo.UpdateStatus(ctx, first.ID, domain.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, prev)

		_, _, err = repo.UpdateStatus(ctx, first.ID, domain.BookingConfirmed)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("slot freed by cancellation can be confirmed", func(t *testing.T) {
		_, _, err := repo.UpdateStatus(ctx, second.ID, domain.BookingConfirmed)
		assert.NoError(t, err)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, _, err := repo.UpdateStatus(ctx, 9999, domain.BookingCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_UpdateStatus_ConcurrentConfirmations(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	first := newBooking(1, hotelID, roomID, "2026-04-01", "2026-04-05", domain.BookingPending)
	second := newBooking(2, hotelID, roomID, "2026-04-03", "2026-04-07", domain.BookingPending)
	require.NoError(t, repo.CreateIfFree(ctx, first))
	require.NoError(t, repo.CreateIfFree(ctx, second))

	ids := []int64{first.ID, second.ID}
	errs := make([]error, len(ids))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			<-start
			_, _, errs[i] = repo.UpdateStatus(ctx, id, domain.BookingConfirmed)
		}(i, id)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	var confirmed int64
	require.NoError(t, db.Model(&bookingModel{}).Where("status = ?", string(domain.BookingConfirmed)).Count(&confirmed).Error)
	assert.Equal(t, int64(1), confirmed)
}

func TestRepository_List(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	a := newBooking(1, hotelID, roomID, "2026-03-01", "2026-03-02", domain.BookingPending)
	b := newBooking(2, hotelID, roomID, "2026-03-03", "2026-03-04", domain.BookingPending)
	c := newBooking(1, hotelID, roomID, "2026-03-05", "2026-03-06", domain.BookingPending)
	for _, bk := range []*domain.Booking{a, b, c} {
		require.NoError(t, repo.CreateIfFree(ctx, bk))
	}

	mine, err := repo.List(ctx, ListFilter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	ids := []int64{mine[0].ID, mine[1].ID}
	assert.ElementsMatch(t, []int64{a.ID, c.ID}, ids)
	assert.Equal(t, "غرفة مزدوجة", mine[0].RoomName)

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_List_KeepsBookingsOfDeletedHotel(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	roomID, hotelID := seedRoom(t, db, 150)

	require.NoError(t, repo.CreateIfFree(ctx, newBooking(1, hotelID, roomID, "2026-03-01", "2026-03-02", domain.BookingPending)))
	require.NoError(t, hotel.NewRepository(db).Delete(ctx, hotelID))

	all, err := repo.List(ctx, ListFilter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].HotelName)
	assert.Empty(t, all[0].RoomName)
}
