package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kavirajan452/poel-step-registeration-form/internal/form"
	repoMocks "github.com/kavirajan452/poel-step-registeration-form/internal/repository/mocks"
)

func newCachedLocationService(t *testing.T) (LocationService, *repoMocks.MockLocationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := new(repoMocks.MockLocationRepository)
	svc := NewLocationService(repo, client, time.Hour, zap.NewNop())
	return svc, repo, mr
}

func TestLocationService_Countries_CachesResult(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCachedLocationService(t)

	repo.On("Countries", ctx).Return([]string{"India", "Singapore"}, nil).Once()

	first, err := svc.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"India", "Singapore"}, first)

	// second call is served from cache; the repository is not hit again
	second, err := svc.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "Countries", 1)
}

func TestLocationService_States_UnknownCountryIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCachedLocationService(t)

	repo.On("StatesByCountry", ctx, "Atlantis").Return([]string{}, nil).Once()

	states, err := svc.States(ctx, "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, states)
	assert.NotNil(t, states)

	// the empty result is cached as well
	states, err = svc.States(ctx, "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, states)
	repo.AssertNumberOfCalls(t, "StatesByCountry", 1)
}

func TestLocationService_States_BlankCountryShortCircuits(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCachedLocationService(t)

	states, err := svc.States(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, states)
	repo.AssertNotCalled(t, "StatesByCountry", ctx, "")
}

func TestLocationService_Cities_CacheExpiryRefetches(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCachedLocationService(t)

	repo.On("CitiesByState", ctx, "Karnataka").Return([]string{"Bengaluru", "Mysuru"}, nil).Twice()

	_, err := svc.Cities(ctx, "Karnataka")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	cities, err := svc.Cities(ctx, "Karnataka")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bengaluru", "Mysuru"}, cities)
	repo.AssertNumberOfCalls(t, "CitiesByState", 2)
}

func TestLocationService_CorruptCacheEntryFallsThrough(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCachedLocationService(t)

	require.NoError(t, mr.Set("loc:countries", "{not json"))
	repo.On("Countries", ctx).Return([]string{"India"}, nil).Once()

	countries, err := svc.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"India"}, countries)
}

func TestLocationService_RepositoryErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCachedLocationService(t)

	repo.On("Countries", ctx).Return(nil, errors.New("db down"))

	_, err := svc.Countries(ctx)
	assert.Error(t, err)
}

func TestLocationService_NilCacheIsPassthrough(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockLocationRepository)
	svc := NewLocationService(repo, nil, time.Hour, zap.NewNop())

	repo.On("Countries", ctx).Return([]string{"India"}, nil).Twice()

	for i := 0; i < 2; i++ {
		countries, err := svc.Countries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"India"}, countries)
	}
	repo.AssertNumberOfCalls(t, "Countries", 2)
}

func TestAsLookupDrivesWizardChain(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockLocationRepository)
	svc := NewLocationService(repo, nil, time.Hour, zap.NewNop())

	repo.On("StatesByCountry", ctx, "India").Return([]string{"Karnataka"}, nil)
	repo.On("CitiesByState", ctx, "Karnataka").Return([]string{"Bengaluru"}, nil)

	lk := AsLookup(svc)

	var d form.DependentSelects
	tok := d.CountryChanged("India")
	require.True(t, d.FetchStates(ctx, lk, tok, "India"))
	assert.Equal(t, []string{"Karnataka"}, d.State.Options)

	ctok := d.StateChanged("Karnataka")
	require.True(t, d.FetchCities(ctx, lk, ctok, "Karnataka"))
	assert.Equal(t, []string{"Bengaluru"}, d.City.Options)
}
