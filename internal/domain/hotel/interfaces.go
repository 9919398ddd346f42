package hotel

import (
	"context"

	"umrahstay/internal/domain"
)

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	Create(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error)
	Update(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error)
	Delete(ctx context.Context, id int64) error
	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
}

// SearchCache holds search results between writes. *cache.SearchCache
// satisfies it. Get reports the generation it read; Set must be given that
// same generation.
type SearchCache interface {
	Get(ctx context.Context, query string, dst any) (bool, int64, error)
	Set(ctx context.Context, gen int64, query string, v any) error
	Invalidate(ctx context.Context) error
}
