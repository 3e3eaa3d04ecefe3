package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/models"
)

func testMappingKey() models.MappingKey {
	return models.MappingKey{Engine: "props_v2", Sport: "nba", BetType: "player_prop"}
}

func TestCachedMappingProviderReadThrough(t *testing.T) {
	repo := new(MockCalibrationRepository)
	provider := NewCachedMappingProvider(repo, time.Minute)
	key := testMappingKey()

	mapping := calibration.Mapping{{Raw: 0.5, Calibrated: 0.55}}
	repo.On("GetMapping", mock.Anything, key).Return(mapping, nil).Once()

	// First call misses and loads; second is served from cache.
	got, err := provider.Mapping(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, mapping, got)

	got, err = provider.Mapping(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, mapping, got)

	repo.AssertNumberOfCalls(t, "GetMapping", 1)
	hits, misses := provider.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedMappingProviderInvalidate(t *testing.T) {
	repo := new(MockCalibrationRepository)
	provider := NewCachedMappingProvider(repo, time.Minute)
	key := testMappingKey()

	old := calibration.Mapping{{Raw: 0.5, Calibrated: 0.5}}
	replaced := calibration.Mapping{{Raw: 0.5, Calibrated: 0.62}}
	repo.On("GetMapping", mock.Anything, key).Return(old, nil).Once()
	repo.On("GetMapping", mock.Anything, key).Return(replaced, nil).Once()

	_, err := provider.Mapping(context.Background(), key)
	require.NoError(t, err)

	// After a recalibration batch the cache entry is dropped and the
	// next read sees the replaced mapping.
	provider.Invalidate(key)

	got, err := provider.Mapping(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)
	repo.AssertNumberOfCalls(t, "GetMapping", 2)
}

func TestCachedMappingProviderEmptyMappingIsCached(t *testing.T) {
	repo := new(MockCalibrationRepository)
	provider := NewCachedMappingProvider(repo, time.Minute)
	key := testMappingKey()

	// A segment with no stored mapping yields an empty mapping, which
	// is a legitimate value and cached like any other.
	repo.On("GetMapping", mock.Anything, key).Return(calibration.Mapping{}, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := provider.Mapping(context.Background(), key)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	repo.AssertNumberOfCalls(t, "GetMapping", 1)
}

func TestCachedMappingProviderLoadError(t *testing.T) {
	repo := new(MockCalibrationRepository)
	provider := NewCachedMappingProvider(repo, time.Minute)
	key := testMappingKey()

	repo.On("GetMapping", mock.Anything, key).Return(nil, errors.New("connection refused"))

	_, err := provider.Mapping(context.Background(), key)
	require.Error(t, err)

	// Errors are never cached.
	_, err = provider.Mapping(context.Background(), key)
	require.Error(t, err)
	repo.AssertNumberOfCalls(t, "GetMapping", 2)
}

func TestCachedMappingProviderDistinctKeys(t *testing.T) {
	repo := new(MockCalibrationRepository)
	provider := NewCachedMappingProvider(repo, time.Minute)

	seasonKey := testMappingKey()
	altKey := models.MappingKey{Engine: "props_v2", Sport: "nba", BetType: "alt_line"}

	seasonMapping := calibration.Mapping{{Raw: 0.5, Calibrated: 0.55}}
	altMapping := calibration.Mapping{{Raw: 0.5, Calibrated: 0.45}}
	repo.On("GetMapping", mock.Anything, seasonKey).Return(seasonMapping, nil).Once()
	repo.On("GetMapping", mock.Anything, altKey).Return(altMapping, nil).Once()

	got, err := provider.Mapping(context.Background(), seasonKey)
	require.NoError(t, err)
	assert.Equal(t, seasonMapping, got)

	got, err = provider.Mapping(context.Background(), altKey)
	require.NoError(t, err)
	assert.Equal(t, altMapping, got)
}
