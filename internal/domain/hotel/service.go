package hotel

import (
	"context"
	"log"

	"umrahstay/internal/domain"
	"umrahstay/internal/domain/availability"
)

type Service struct {
	repo  Repository
	cache SearchCache
}

// NewService wires the hotel service. cache may be nil.
func NewService(repo Repository, cache SearchCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Search runs the database filter, then the availability filter, and caches
// the final list.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]domain.Hotel, error) {
	key := p.cacheKey()
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		var cached []domain.Hotel
		hit, g, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("search_cache_error op=get error=%q", err.Error())
		} else if hit {
			return cached, nil
		} else {
			gen, cacheable = g, true
		}
	}

	hotels, err := s.repo.List(ctx, p.ListFilter)
	if err != nil {
		return nil, err
	}
	hotels = availability.Filter(hotels, p.Availability)

	if cacheable {
		if err := s.cache.Set(ctx, gen, key, hotels); err != nil {
			log.Printf("search_cache_error op=set error=%q", err.Error())
		}
	}
	return hotels, nil
}

// Get returns one hotel with its rooms annotated for q.
func (s *Service) Get(ctx context.Context, id int64, q availability.Query) (*domain.Hotel, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	annotated := availability.Annotate(*h, q)
	return &annotated, nil
}

func (s *Service) Create(ctx context.Context, req HotelRequest) (*domain.Hotel, error) {
	h, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	if h.Rooms == nil {
		h.Rooms = []domain.Room{}
	}

	created, err := s.repo.Create(ctx, h)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req HotelRequest) (*domain.Hotel, error) {
	h, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	h.ID = id

	updated, err := s.repo.Update(ctx, h)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.repo.ListAmenities(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("search_cache_error op=invalidate error=%q", err.Error())
	}
}
