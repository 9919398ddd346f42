package profile

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"umrahstay/internal/domain"
	"umrahstay/internal/repository"
)

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return u, nil
}

// Update applies the non-nil fields of req. A new password is bcrypt-hashed
// before it is stored.
func (s *Service) Update(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	if req.Password != nil && len(*req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		u.Email = repository.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, mapRepoError(err)
	}
	return u, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrProfileNotFound
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailTaken
	}
	return err
}
