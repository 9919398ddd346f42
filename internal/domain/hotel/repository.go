package hotel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"umrahstay/internal/domain"
	"umrahstay/internal/pkg/utils"
)

type hotelModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	Name          string     `gorm:"column:name;size:255;not null"`
	Description   string     `gorm:"column:description;type:text"`
	Location      string     `gorm:"column:location;size:255;index"`
	Latitude      float64    `gorm:"column:latitude"`
	Longitude     float64    `gorm:"column:longitude"`
	Rating        float64    `gorm:"column:rating;index"`
	ReviewCount   int        `gorm:"column:review_count"`
	Price         float64    `gorm:"column:price;index"`
	Images        string     `gorm:"column:images;type:text"`
	Features      string     `gorm:"column:features;type:text"`
	AvailableFrom *time.Time `gorm:"column:available_from"`
	AvailableTo   *time.Time `gorm:"column:available_to"`
	Badge         string     `gorm:"column:badge;size:64"`
	Featured      bool       `gorm:"column:featured;index"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (hotelModel) TableName() string { return "hotels" }

type roomModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	HotelID             int64      `gorm:"column:hotel_id;index;not null"`
	Name                string     `gorm:"column:name;size:255;not null"`
	Description         string     `gorm:"column:description;type:text"`
	CapacityAdults      int        `gorm:"column:capacity_adults"`
	CapacityChildren    int        `gorm:"column:capacity_children"`
	Price               float64    `gorm:"column:price"`
	MaxExtraBeds        int        `gorm:"column:max_extra_beds"`
	ExtraBedPrice       float64    `gorm:"column:extra_bed_price"`
	AllowSingleDiscount bool       `gorm:"column:allow_single_discount"`
	AvailableFrom       *time.Time `gorm:"column:available_from"`
	AvailableTo         *time.Time `gorm:"column:available_to"`
	Status              string     `gorm:"column:status;size:16;default:'ACTIVE'"`
	AvailableUnits      int        `gorm:"column:available_units"`
	Images              string     `gorm:"column:images;type:text"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type amenityModel struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Label string `gorm:"column:label;size:100;uniqueIndex;not null"`
	Icon  string `gorm:"column:icon;size:64"`
}

func (amenityModel) TableName() string { return "amenities" }

type hotelAmenityModel struct {
	HotelID   int64 `gorm:"column:hotel_id;primaryKey;autoIncrement:false"`
	AmenityID int64 `gorm:"column:amenity_id;primaryKey;autoIncrement:false"`
}

func (hotelAmenityModel) TableName() string { return "hotel_amenities" }

type nearbyPlaceModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	HotelID  int64  `gorm:"column:hotel_id;index;not null"`
	Name     string `gorm:"column:name;size:255"`
	Distance int    `gorm:"column:distance"`
	Type     string `gorm:"column:type;size:64"`
}

func (nearbyPlaceModel) TableName() string { return "nearby_places" }

// Models lists the tables this package owns, in creation order.
func Models() []any {
	return []any{&hotelModel{}, &roomModel{}, &amenityModel{}, &hotelAmenityModel{}, &nearbyPlaceModel{}}
}

func toDomainHotel(m hotelModel) domain.Hotel {
	return domain.Hotel{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Location:      m.Location,
		Coordinates:   [2]float64{m.Latitude, m.Longitude},
		Rating:        m.Rating,
		ReviewCount:   m.ReviewCount,
		Price:         m.Price,
		Images:        utils.StringToList(m.Images),
		Features:      utils.StringToList(m.Features),
		AvailableFrom: m.AvailableFrom,
		AvailableTo:   m.AvailableTo,
		Badge:         m.Badge,
		Featured:      m.Featured,
		Rooms:         []domain.Room{},
		Amenities:     []domain.Amenity{},
		NearbyPlaces:  []domain.NearbyPlace{},
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toHotelModel(h *domain.Hotel) hotelModel {
	return hotelModel{
		ID:            h.ID,
		Name:          h.Name,
		Description:   h.Description,
		Location:      h.Location,
		Latitude:      h.Coordinates[0],
		Longitude:     h.Coordinates[1],
		Rating:        h.Rating,
		ReviewCount:   h.ReviewCount,
		Price:         h.Price,
		Images:        utils.ListToString(h.Images),
		Features:      utils.ListToString(h.Features),
		AvailableFrom: dayPtr(h.AvailableFrom),
		AvailableTo:   dayPtr(h.AvailableTo),
		Badge:         h.Badge,
		Featured:      h.Featured,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

func toDomainRoom(m roomModel) domain.Room {
	return domain.Room{
		ID:                  m.ID,
		HotelID:             m.HotelID,
		Name:                m.Name,
		Description:         m.Description,
		Capacity:            domain.Capacity{Adults: m.CapacityAdults, Children: m.CapacityChildren},
		Price:               m.Price,
		MaxExtraBeds:        m.MaxExtraBeds,
		ExtraBedPrice:       m.ExtraBedPrice,
		AllowSingleDiscount: m.AllowSingleDiscount,
		AvailableFrom:       m.AvailableFrom,
		AvailableTo:         m.AvailableTo,
		Status:              domain.RoomStatus(m.Status),
		AvailableUnits:      m.AvailableUnits,
		Images:              utils.StringToList(m.Images),
	}
}

func toRoomModel(hotelID int64, r domain.Room) roomModel {
	status := string(r.Status)
	if status == "" {
		status = string(domain.RoomActive)
	}
	return roomModel{
		ID:                  r.ID,
		HotelID:             hotelID,
		Name:                r.Name,
		Description:         r.Description,
		CapacityAdults:      r.Capacity.Adults,
		CapacityChildren:    r.Capacity.Children,
		Price:               r.Price,
		MaxExtraBeds:        r.MaxExtraBeds,
		ExtraBedPrice:       r.ExtraBedPrice,
		AllowSingleDiscount: r.AllowSingleDiscount,
		AvailableFrom:       dayPtr(r.AvailableFrom),
		AvailableTo:         dayPtr(r.AvailableTo),
		Status:              status,
		AvailableUnits:      r.AvailableUnits,
		Images:              utils.ListToString(r.Images),
	}
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := utils.Day(*t)
	return &d
}

type hotelRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) List(ctx context.Context, f ListFilter) ([]domain.Hotel, error) {
	q := r.db.WithContext(ctx).Model(&hotelModel{})

	if f.Destination != "" {
		like := "%" + strings.ToLower(f.Destination) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(location) LIKE ?)", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Featured {
		q = q.Where("featured = ?", true)
	}
	if f.MaxDistance != nil {
		q = q.Where("EXISTS (SELECT 1 FROM nearby_places np WHERE np.hotel_id = hotels.id AND np.distance <= ?)", *f.MaxDistance)
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC").Order("id ASC")
	case SortPriceDesc:
		q = q.Order("price DESC").Order("id ASC")
	default:
		q = q.Order("rating DESC").Order("id ASC")
	}

	var rows []hotelModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(r.db.WithContext(ctx), rows)
}

func (r *hotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	return r.getByID(r.db.WithContext(ctx), id)
}

func (r *hotelRepository) getByID(db *gorm.DB, id int64) (*domain.Hotel, error) {
	var m hotelModel
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hotels, err := r.hydrate(db, []hotelModel{m})
	if err != nil {
		return nil, err
	}
	return &hotels[0], nil
}

// hydrate loads rooms, amenities and nearby places for rows in three queries.
func (r *hotelRepository) hydrate(db *gorm.DB, rows []hotelModel) ([]domain.Hotel, error) {
	hotels := make([]domain.Hotel, len(rows))
	if len(rows) == 0 {
		return hotels, nil
	}

	ids := make([]int64, len(rows))
	index := make(map[int64]int, len(rows))
	for i, m := range rows {
		hotels[i] = toDomainHotel(m)
		ids[i] = m.ID
		index[m.ID] = i
	}

	var rooms []roomModel
	if err := db.Where("hotel_id IN ?", ids).Order("price ASC").Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	for _, m := range rooms {
		i := index[m.HotelID]
		hotels[i].Rooms = append(hotels[i].Rooms, toDomainRoom(m))
	}

	var places []nearbyPlaceModel
	if err := db.Where("hotel_id IN ?", ids).Order("distance ASC").Order("id ASC").Find(&places).Error; err != nil {
		return nil, err
	}
	for _, m := range places {
		i := index[m.HotelID]
		hotels[i].NearbyPlaces = append(hotels[i].NearbyPlaces, domain.NearbyPlace{
			ID: m.ID, Name: m.Name, Distance: m.Distance, Type: m.Type,
		})
	}

	type amenityRow struct {
		HotelID int64
		ID      int64
		Label   string
		Icon    string
	}
	var links []amenityRow
	err := db.Table("hotel_amenities").
		Select("hotel_amenities.hotel_id, amenities.id, amenities.label, amenities.icon").
		Joins("JOIN amenities ON amenities.id = hotel_amenities.amenity_id").
		Where("hotel_amenities.hotel_id IN ?", ids).
		Order("amenities.label ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		i := index[l.HotelID]
		hotels[i].Amenities = append(hotels[i].Amenities, domain.Amenity{ID: l.ID, Label: l.Label, Icon: l.Icon})
	}

	return hotels, nil
}

func (r *hotelRepository) Create(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if price, ok := domain.MinRoomPrice(h.Rooms); ok {
			h.Price = price
		}

		m := toHotelModel(h)
		m.ID = 0
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		id = m.ID

		for _, room := range h.Rooms {
			rm := toRoomModel(id, room)
			rm.ID = 0
			if err := tx.Create(&rm).Error; err != nil {
				return err
			}
		}
		if err := replaceNearbyPlaces(tx, id, h.NearbyPlaces); err != nil {
			return err
		}
		return replaceAmenities(tx, id, h.Amenities)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update replaces the hotel's scalar fields and, for each collection that is
// non-nil on h, reconciles it with the stored one. The hotel price is then
// resynced from the persisted rooms.
func (r *hotelRepository) Update(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing hotelModel
		if err := tx.First(&existing, h.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if h.Rooms != nil {
			if err := reconcileRooms(tx, h.ID, h.Rooms); err != nil {
				return err
			}
		}

		var rooms []roomModel
		if err := tx.Where("hotel_id = ?", h.ID).Find(&rooms).Error; err != nil {
			return err
		}
		persisted := make([]domain.Room, len(rooms))
		for i, m := range rooms {
			persisted[i] = toDomainRoom(m)
		}
		if price, ok := domain.MinRoomPrice(persisted); ok {
			h.Price = price
		}

		m := toHotelModel(h)
		m.CreatedAt = existing.CreatedAt
		if err := tx.Save(&m).Error; err != nil {
			return err
		}

		if h.NearbyPlaces != nil {
			if err := replaceNearbyPlaces(tx, h.ID, h.NearbyPlaces); err != nil {
				return err
			}
		}
		if h.Amenities != nil {
			return replaceAmenities(tx, h.ID, h.Amenities)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, h.ID)
}

// reconcileRooms deletes stored rooms missing from rooms, updates the ones
// whose id matches and creates the id-less ones.
func reconcileRooms(tx *gorm.DB, hotelID int64, rooms []domain.Room) error {
	var existingIDs []int64
	if err := tx.Model(&roomModel{}).Where("hotel_id = ?", hotelID).Pluck("id", &existingIDs).Error; err != nil {
		return err
	}
	owned := make(map[int64]bool, len(existingIDs))
	for _, id := range existingIDs {
		owned[id] = true
	}

	keep := make(map[int64]bool, len(rooms))
	for _, room := range rooms {
		if room.ID == 0 {
			continue
		}
		if !owned[room.ID] {
			return fmt.Errorf("%w: room %d does not belong to hotel %d", ErrValidation, room.ID, hotelID)
		}
		keep[room.ID] = true
	}

	var stale []int64
	for _, id := range existingIDs {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := tx.Where("id IN ?", stale).Delete(&roomModel{}).Error; err != nil {
			return err
		}
	}

	for _, room := range rooms {
		rm := toRoomModel(hotelID, room)
		if room.ID == 0 {
			if err := tx.Create(&rm).Error; err != nil {
				return err
			}
			continue
		}
		err := tx.Model(&roomModel{}).Where("id = ?", room.ID).Select("*").Omit("id", "created_at").Updates(&rm).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceNearbyPlaces(tx *gorm.DB, hotelID int64, places []domain.NearbyPlace) error {
	if err := tx.Where("hotel_id = ?", hotelID).Delete(&nearbyPlaceModel{}).Error; err != nil {
		return err
	}
	if len(places) == 0 {
		return nil
	}
	rows := make([]nearbyPlaceModel, len(places))
	for i, p := range places {
		rows[i] = nearbyPlaceModel{HotelID: hotelID, Name: p.Name, Distance: p.Distance, Type: p.Type}
	}
	return tx.Create(&rows).Error
}

// replaceAmenities relinks the hotel to amenities, creating any label not yet
// in the catalogue. Labels are deduplicated.
func replaceAmenities(tx *gorm.DB, hotelID int64, amenities []domain.Amenity) error {
	if err := tx.Where("hotel_id = ?", hotelID).Delete(&hotelAmenityModel{}).Error; err != nil {
		return err
	}

	seen := make(map[string]bool, len(amenities))
	var links []hotelAmenityModel
	for _, a := range amenities {
		label := strings.TrimSpace(a.Label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true

		var m amenityModel
		err := tx.Where(amenityModel{Label: label}).Attrs(amenityModel{Icon: a.Icon}).FirstOrCreate(&m).Error
		if err != nil {
			return err
		}
		links = append(links, hotelAmenityModel{HotelID: hotelID, AmenityID: m.ID})
	}

	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

// Delete removes the hotel with its rooms, nearby places and amenity links.
// Bookings are kept as history.
func (r *hotelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&hotelModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&roomModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&nearbyPlaceModel{}).Error; err != nil {
			return err
		}
		return tx.Where("hotel_id = ?", id).Delete(&hotelAmenityModel{}).Error
	})
}

func (r *hotelRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	var rows []amenityModel
	if err := r.db.WithContext(ctx).Order("label ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Amenity, len(rows))
	for i, m := range rows {
		out[i] = domain.Amenity{ID: m.ID, Label: m.Label, Icon: m.Icon}
	}
	return out, nil
}
