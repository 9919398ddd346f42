package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"umrahstay/internal/database"
	"umrahstay/internal/domain"
)

const maxTxAttempts = 3

type bookingModel struct {
	ID              int64          `gorm:"column:id;primaryKey"`
	Reference       string         `gorm:"column:reference;size:36;uniqueIndex;not null"`
	UserID          int64          `gorm:"column:user_id;index;not null"`
	HotelID         int64          `gorm:"column:hotel_id;index"`
	RoomID          int64          `gorm:"column:room_id;index:idx_bookings_room_dates,priority:1;not null"`
	CheckIn         time.Time      `gorm:"column:check_in;type:date;index:idx_bookings_room_dates,priority:2;not null"`
	CheckOut        time.Time      `gorm:"column:check_out;type:date;not null"`
	Adults          int            `gorm:"column:adults"`
	Children        int            `gorm:"column:children"`
	TotalPrice      float64        `gorm:"column:total_price"`
	Status          string         `gorm:"column:status;size:16;index;not null"`
	GuestName       string         `gorm:"column:guest_name;size:255"`
	GuestEmail      string         `gorm:"column:guest_email;size:255"`
	GuestPhone      string         `gorm:"column:guest_phone;size:32"`
	SpecialRequests string         `gorm:"column:special_requests;type:text"`
	Companions      datatypes.JSON `gorm:"column:companions"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// Models lists the tables this package owns.
func Models() []any {
	return []any{&bookingModel{}}
}

const (
	overlapConstraint = "bookings_confirmed_stay_overlap"
	// Earlier builds indexed daterange(check_in, check_out), which is empty
	// for a same-day stay.
	legacyOverlapConstraint = "bookings_no_confirmed_overlap"
)

// Migrate creates the bookings table. On PostgreSQL it also installs an
// exclusion constraint so two CONFIRMED stays on one room cannot overlap.
func Migrate(db *gorm.DB) error {
	if err := database.Migrate(db, Models()...); err != nil {
		return err
	}
	if database.Dialect(db) != database.DialectPostgres {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	return db.Exec(overlapConstraintSQL()).Error
}

// overlapConstraintSQL occupies at least one night per stay so a same-day
// booking still blocks its check-in date.
func overlapConstraintSQL() string {
	return `DO $$
BEGIN
	ALTER TABLE bookings DROP CONSTRAINT IF EXISTS ` + legacyOverlapConstraint + `;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + overlapConstraint + `') THEN
		ALTER TABLE bookings ADD CONSTRAINT ` + overlapConstraint + `
			EXCLUDE USING gist (
				room_id WITH =,
				daterange(check_in, GREATEST(check_out, check_in + 1), '[)') WITH &&
			)
			WHERE (status = 'CONFIRMED');
	END IF;
END $$`
}

func toDomainBooking(m bookingModel) domain.Booking {
	companions := []domain.Companion{}
	if len(m.Companions) > 0 {
		if err := json.Unmarshal(m.Companions, &companions); err != nil {
			log.Printf("booking_decode_error booking_id=%d field=companions error=%q", m.ID, err.Error())
			companions = []domain.Companion{}
		}
	}

	return domain.Booking{
		ID:              m.ID,
		Reference:       m.Reference,
		UserID:          m.UserID,
		HotelID:         m.HotelID,
		RoomID:          m.RoomID,
		CheckIn:         m.CheckIn.UTC(),
		CheckOut:        m.CheckOut.UTC(),
		Adults:          m.Adults,
		Children:        m.Children,
		TotalPrice:      m.TotalPrice,
		Status:          domain.BookingStatus(m.Status),
		GuestName:       m.GuestName,
		GuestEmail:      m.GuestEmail,
		GuestPhone:      m.GuestPhone,
		SpecialRequests: m.SpecialRequests,
		Companions:      companions,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	companions := b.Companions
	if companions == nil {
		companions = []domain.Companion{}
	}
	raw, err := json.Marshal(companions)
	if err != nil {
		return bookingModel{}, err
	}

	return bookingModel{
		ID:              b.ID,
		Reference:       b.Reference,
		UserID:          b.UserID,
		HotelID:         b.HotelID,
		RoomID:          b.RoomID,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Adults:          b.Adults,
		Children:        b.Children,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		SpecialRequests: b.SpecialRequests,
		Companions:      datatypes.JSON(raw),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}, nil
}

type roomRow struct {
	ID      int64
	HotelID int64
	Price   float64
	Status  string
}

type bookingRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetRoom(ctx context.Context, roomID int64) (*RoomInfo, error) {
	return findRoom(r.db.WithContext(ctx), roomID, false)
}

// findRoom reads the room row, locking it FOR UPDATE when lock is set and
// the database supports row locks.
func findRoom(db *gorm.DB, roomID int64, lock bool) (*RoomInfo, error) {
	q := db.Table("rooms").Select("id, hotel_id, price, status").Where("id = ?", roomID).Limit(1)
	if lock && database.Dialect(db) != database.DialectSQLite {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row roomRow
	res := q.Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRoomNotFound
	}
	return &RoomInfo{ID: row.ID, HotelID: row.HotelID, Price: row.Price, Status: domain.RoomStatus(row.Status)}, nil
}

// confirmedAround loads CONFIRMED bookings on the room whose dates touch
// the stay. The exact overlap test runs in Go.
func confirmedAround(tx *gorm.DB, roomID int64, s Stay) ([]domain.Booking, error) {
	var rows []bookingModel
	err := tx.Where("room_id = ? AND status = ? AND check_in <= ? AND check_out >= ?",
		roomID, string(domain.BookingConfirmed), s.CheckOut, s.CheckIn).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, len(rows))
	for i, m := range rows {
		out[i] = toDomainBooking(m)
	}
	return out, nil
}

func checkFree(tx *gorm.DB, roomID int64, s Stay, skipID int64) error {
	existing, err := confirmedAround(tx, roomID, s)
	if err != nil {
		return err
	}
	if _, found := FirstConflict(existing, s, skipID); found {
		return ErrConflict
	}
	return nil
}

func (r *bookingRepository) CreateIfFree(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.serializable(ctx, func(tx *gorm.DB) error {
		if _, err := findRoom(tx, b.RoomID, true); err != nil {
			return err
		}
		if err := checkFree(tx, b.RoomID, Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}, 0); err != nil {
			return err
		}
		m.ID = 0
		return tx.Create(&m).Error
	})
	if err != nil {
		return err
	}

	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, domain.BookingStatus, error) {
	var prev domain.BookingStatus

	err := r.serializable(ctx, func(tx *gorm.DB) error {
		q := tx
		if database.Dialect(tx) != database.DialectSQLite {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var m bookingModel
		if err := q.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		prev = domain.BookingStatus(m.Status)
		if !CanTransition(prev, status) {
			return ErrInvalidStatusTransition
		}

		if status == domain.BookingConfirmed {
			if _, err := findRoom(tx, m.RoomID, true); err != nil {
				return err
			}
			if err := checkFree(tx, m.RoomID, Stay{CheckIn: m.CheckIn, CheckOut: m.CheckOut}, m.ID); err != nil {
				return err
			}
		}

		return tx.Model(&bookingModel{}).Where("id = ?", id).Update("status", string(status)).Error
	})
	if err != nil {
		return nil, "", err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return b, prev, nil
}

type bookingRow struct {
	Booking   bookingModel `gorm:"embedded"`
	HotelName string       `gorm:"column:hotel_name"`
	RoomName  string       `gorm:"column:room_name"`
}

func (r *bookingRepository) withNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, COALESCE(hotels.name, '') AS hotel_name, COALESCE(rooms.name, '') AS room_name").
		Joins("LEFT JOIN hotels ON hotels.id = bookings.hotel_id").
		Joins("LEFT JOIN rooms ON rooms.id = bookings.room_id")
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var rows []bookingRow
	if err := r.withNames(ctx).Where("bookings.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	b := rows[0].toDomain()
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, f ListFilter) ([]domain.Booking, error) {
	q := r.withNames(ctx)
	if f.UserID > 0 {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}

	var rows []bookingRow
	if err := q.Order("bookings.created_at DESC").Order("bookings.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (row bookingRow) toDomain() domain.Booking {
	b := toDomainBooking(row.Booking)
	b.HotelName = row.HotelName
	b.RoomName = row.RoomName
	return b
}

// serializable runs fn in a SERIALIZABLE transaction on PostgreSQL and
// MySQL, retrying serialization failures. SQLite transactions already
// serialise writers.
func (r *bookingRepository) serializable(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if database.Dialect(r.db) != database.DialectSQLite {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn, opts...)
		if !isRetryable(err) {
			break
		}
		log.Printf("booking_tx_retry attempt=%d error=%q", attempt, err.Error())
	}
	return mapDriverError(err)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// mapDriverError turns constraint violations and exhausted retries into
// ErrConflict and leaves every other error alone.
func mapDriverError(err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
		return ErrConflict
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrConflict
	}
	return err
}
