package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"umrahstay/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Role         string    `gorm:"column:role;size:16;not null;default:'USER'"`
	Name         string    `gorm:"column:name;size:255"`
	Phone        *string   `gorm:"column:phone;size:32"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

// UserModels lists the tables owned by UserRepository.
func UserModels() []any {
	return []any{&userModel{}}
}

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Name:         m.Name,
		Phone:        phone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}

	return userModel{
		ID:           u.ID,
		Email:        NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(role),
		Name:         u.Name,
		Phone:        phone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return mapUserError(tx.Error)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, mapUserError(tx.Error)
	}
	return toDomainUser(m), nil
}

// Update writes the editable profile columns. Another account already
// holding the email yields ErrEmailTaken.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)

	var taken int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ? AND id <> ?", m.Email, m.ID).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return ErrEmailTaken
	}

	tx := r.db.WithContext(ctx).Model(&userModel{ID: m.ID}).Updates(map[string]any{
		"email":         m.Email,
		"password_hash": m.PasswordHash,
		"name":          m.Name,
		"phone":         m.Phone,
		"updated_at":    time.Now(),
	})
	if tx.Error != nil {
		return mapUserError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrUserNotFound
	}

	fresh, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

func mapUserError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrEmailTaken
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrEmailTaken
	}
	return err
}
