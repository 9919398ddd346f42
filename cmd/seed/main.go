package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"umrahstay/internal/config"
	"umrahstay/internal/database"
	"umrahstay/internal/domain"
	"umrahstay/internal/domain/hotel"
	jwtsvc "umrahstay/internal/pkg/jwt"
	"umrahstay/internal/repository"
	"umrahstay/internal/schema"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := schema.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"bookings", "hotel_amenities", "nearby_places", "rooms", "amenities", "hotels", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	// ================== USERS ==================
	log.Println("Creating users...")
	users := repository.NewUserRepository(db)

	admin := mustUser(ctx, users, "admin@umrahstay.sa", "admin123", domain.RoleAdmin, "مدير النظام", "+966500000001")
	pilgrim := mustUser(ctx, users, "pilgrim@umrahstay.sa", "user123", domain.RoleUser, "عبدالرحمن", "+966500000002")

	// ================== HOTELS ==================
	log.Println("Creating hotels...")
	hotels := hotel.NewRepository(db)
	for _, h := range sampleHotels() {
		created, err := hotels.Create(ctx, h)
		if err != nil {
			log.Fatalf("create hotel %q failed: %v", h.Name, err)
		}
		log.Printf("hotel id=%d name=%q rooms=%d price=%.2f", created.ID, created.Name, len(created.Rooms), created.Price)
	}

	// ================== TOKENS ==================
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	fmt.Println()
	fmt.Println("Dev tokens:")
	for _, u := range []*domain.User{admin, pilgrim} {
		token, err := j.GenerateToken(u.ID, u.Role)
		if err != nil {
			log.Fatalf("token for %s failed: %v", u.Email, err)
		}
		fmt.Printf("  %-6s %s\n  %s\n\n", u.Role, u.Email, token)
	}

	log.Println("Seed completed")
}

func mustUser(ctx context.Context, repo *repository.UserRepository, email, password string, role domain.UserRole, name, phone string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt failed:", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
		Phone:        phone,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create user %s failed: %v", email, err)
	}
	return u
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatal(err)
	}
	return &t
}

func sampleHotels() []*domain.Hotel {
	return []*domain.Hotel{
		{
			Name:          "فندق أبراج البيت",
			Description:   "إطلالة مباشرة على الحرم المكي",
			Location:      "مكة المكرمة، أجياد",
			Coordinates:   [2]float64{21.4189, 39.8262},
			Rating:        4.8,
			ReviewCount:   1240,
			Images:        []string{"/images/makkah/abraj-1.jpg", "/images/makkah/abraj-2.jpg"},
			Features:      []string{"إطلالة على الكعبة", "خدمة الغرف 24 ساعة"},
			AvailableFrom: date("2026-01-01"),
			AvailableTo:   date("2026-12-31"),
			Badge:         "الأكثر طلباً",
			Featured:      true,
			Rooms: []domain.Room{
				{Name: "غرفة مزدوجة", Capacity: domain.Capacity{Adults: 2, Children: 1}, Price: 450, MaxExtraBeds: 1, ExtraBedPrice: 120, AllowSingleDiscount: true, Status: domain.RoomActive, AvailableUnits: 20},
				{Name: "غرفة عائلية", Capacity: domain.Capacity{Adults: 4, Children: 2}, Price: 780, MaxExtraBeds: 2, ExtraBedPrice: 120, Status: domain.RoomActive, AvailableUnits: 8},
			},
			Amenities: []domain.Amenity{
				{Label: "واي فاي مجاني", Icon: "wifi"},
				{Label: "مصلى", Icon: "mosque"},
				{Label: "مطعم", Icon: "restaurant"},
			},
			NearbyPlaces: []domain.NearbyPlace{
				{Name: "المسجد الحرام", Distance: 150, Type: "mosque"},
				{Name: "محطة قطار الحرمين", Distance: 4200, Type: "transport"},
			},
		},
		{
			Name:        "فندق دار الإيمان",
			Description: "على بعد خطوات من المسجد النبوي",
			Location:    "المدينة المنورة، المنطقة المركزية",
			Coordinates: [2]float64{24.4686, 39.6112},
			Rating:      4.5,
			ReviewCount: 860,
			Images:      []string{"/images/madinah/iman-1.jpg"},
			Features:    []string{"قريب من باب السلام"},
			Rooms: []domain.Room{
				{Name: "غرفة فردية", Capacity: domain.Capacity{Adults: 1}, Price: 280, Status: domain.RoomActive, AvailableUnits: 12},
				{Name: "جناح", Capacity: domain.Capacity{Adults: 3, Children: 2}, Price: 650, MaxExtraBeds: 1, ExtraBedPrice: 100, Status: domain.RoomActive, AvailableUnits: 4},
			},
			Amenities: []domain.Amenity{
				{Label: "واي فاي مجاني", Icon: "wifi"},
				{Label: "نقل إلى المطار", Icon: "shuttle"},
			},
			NearbyPlaces: []domain.NearbyPlace{
				{Name: "المسجد النبوي", Distance: 300, Type: "mosque"},
			},
		},
		{
			Name:          "فندق العزيزية الاقتصادي",
			Location:      "مكة المكرمة، العزيزية",
			Coordinates:   [2]float64{21.4050, 39.8790},
			Rating:        3.9,
			ReviewCount:   210,
			AvailableFrom: date("2026-05-01"),
			AvailableTo:   date("2026-06-30"),
			Badge:         "موسم الحج",
			Rooms: []domain.Room{
				{Name: "غرفة رباعية", Capacity: domain.Capacity{Adults: 4}, Price: 320, Status: domain.RoomActive, AvailableUnits: 30, AvailableFrom: date("2026-05-01"), AvailableTo: date("2026-06-30")},
			},
			NearbyPlaces: []domain.NearbyPlace{
				{Name: "منى", Distance: 2500, Type: "landmark"},
			},
		},
	}
}
