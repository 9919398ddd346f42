package hotel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"umrahstay/internal/domain"
	"umrahstay/internal/domain/availability"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]domain.Hotel, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, query string, dst any) (bool, int64, error) {
	args := m.Called(ctx, query, dst)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, gen int64, query string, v any) error {
	return m.Called(ctx, gen, query, v).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestService_Search_AppliesAvailabilityAndCaches(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)

	hotels := []domain.Hotel{
		{ID: 1, Rooms: []domain.Room{{ID: 1, Price: 100, Capacity: domain.Capacity{Adults: 2}, MaxExtraBeds: 1}}},
		{ID: 2, Rooms: []domain.Room{{ID: 2, Price: 100, Capacity: domain.Capacity{Adults: 2}}}},
	}
	params := SearchParams{
		ListFilter:   ListFilter{Sort: SortRating},
		Availability: availability.Query{Guests: &availability.GuestSpec{Adults: 3, Rooms: 1}},
	}

	cache.On("Get", mock.Anything, params.cacheKey(), mock.Anything).Return(false, int64(4), nil).Once()
	repo.On("List", mock.Anything, params.ListFilter).Return(hotels, nil).Once()
	cache.On("Set", mock.Anything, int64(4), params.cacheKey(), mock.MatchedBy(func(v []domain.Hotel) bool {
		return len(v) == 1 && v[0].ID == 1
	})).Return(nil).Once()

	got, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Search_CacheHitSkipsRepository(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		dst := args.Get(2).(*[]domain.Hotel)
		*dst = []domain.Hotel{{ID: 42}}
	}).Return(true, int64(0), nil).Once()

	got, err := svc.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].ID)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestService_Search_CacheErrorFallsThrough(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, int64(0), errors.New("redis down")).Once()
	repo.On("List", mock.Anything, mock.Anything).Return([]domain.Hotel{{ID: 7}}, nil).Once()

	got, err := svc.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Search_StoresUnderGenerationItRead(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)

	// A write invalidates the cache while the repository read is in flight.
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, int64(1), nil).Once()
	repo.On("List", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		require.NoError(t, cache.Invalidate(context.Background()))
	}).Return([]domain.Hotel{{ID: 7}}, nil).Once()
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	cache.On("Set", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestService_WritesInvalidateCache(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)
	ctx := context.Background()

	repo.On("Create", mock.Anything, mock.Anything).Return(&domain.Hotel{ID: 1}, nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(h *domain.Hotel) bool { return h.ID == 1 })).Return(&domain.Hotel{ID: 1}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	cache.On("Invalidate", mock.Anything).Return(nil).Times(3)

	req := HotelRequest{Name: "X", Location: "مكة"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, req)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_FailedWriteKeepsCache(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache)

	repo.On("Delete", mock.Anything, int64(5)).Return(ErrNotFound).Once()

	err := svc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestService_Create_BadWindow(t *testing.T) {
	svc := NewService(new(MockRepository), nil)

	_, err := svc.Create(context.Background(), HotelRequest{
		Name: "X", Location: "Y", AvailableFrom: "2026-05-01", AvailableTo: "2026-04-01",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
