package geocoding

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locator/config"
	"locator/internal/domain/entity"
	"locator/internal/errors"
	mocksvc "locator/internal/mocks/service"
)

func testGeocodingConfig() *config.GeocodingConfig {
	return &config.GeocodingConfig{
		Country:           "us",
		Timeout:           time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}
}

func newTestResolver(t *testing.T) (*Resolver, *mocksvc.MockGeocoder) {
	t.Helper()

	geocoder := mocksvc.NewMockGeocoder(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewResolver(geocoder, testGeocodingConfig(), logger), geocoder
}

func TestResolver_CachesSuccess(t *testing.T) {
	resolver, geocoder := newTestResolver(t)
	ctx := context.Background()
	want := entity.NewCoordinate(40.7506, -73.9972)

	geocoder.EXPECT().Lookup(mock.Anything, "us", "10001").Return(want, nil).Once()

	assert.Equal(t, want, resolver.Resolve(ctx, "10001"))
	assert.Equal(t, want, resolver.Resolve(ctx, "10001"))
	assert.Equal(t, 1, resolver.CacheSize())
}

func TestResolver_CachesFailureAsAbsent(t *testing.T) {
	resolver, geocoder := newTestResolver(t)
	ctx := context.Background()

	geocoder.EXPECT().Lookup(mock.Anything, "us", "99999").
		Return(entity.AbsentCoordinate, errors.Wrap(ErrPostalCodeNotFound, "99999")).Once()

	assert.True(t, resolver.Resolve(ctx, "99999").IsAbsent())
	assert.True(t, resolver.Resolve(ctx, "99999").IsAbsent())
	assert.Equal(t, 1, resolver.CacheSize())
}

func TestResolver_NonCanonicalSkipsLookup(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	for _, code := range []string{"", "1234", "123456", "12a45", "12345-6789"} {
		assert.True(t, resolver.Resolve(ctx, code).IsAbsent(), code)
	}
	assert.Equal(t, 0, resolver.CacheSize())
}

func TestResolver_CancelledContextIsNotCached(t *testing.T) {
	resolver, geocoder := newTestResolver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, resolver.Resolve(ctx, "10001").IsAbsent())
	assert.Equal(t, 0, resolver.CacheSize())

	want := entity.NewCoordinate(40.7506, -73.9972)
	geocoder.EXPECT().Lookup(mock.Anything, "us", "10001").Return(want, nil).Once()
	assert.Equal(t, want, resolver.Resolve(context.Background(), "10001"))
}

func TestResolver_ResolveAll(t *testing.T) {
	resolver, geocoder := newTestResolver(t)
	ctx := context.Background()

	nyc := entity.NewCoordinate(40.7506, -73.9972)
	la := entity.NewCoordinate(34.0901, -118.4065)

	geocoder.EXPECT().Lookup(mock.Anything, "us", "10001").Return(nyc, nil).Once()
	geocoder.EXPECT().Lookup(mock.Anything, "us", "90210").Return(la, nil).Once()
	geocoder.EXPECT().Lookup(mock.Anything, "us", "00000").
		Return(entity.AbsentCoordinate, ErrPostalCodeNotFound).Once()

	report := resolver.ResolveAll(ctx, []string{"10001", "00000", "10001", "90210", "00000"})

	require.Len(t, report.Coordinates, 3)
	assert.Equal(t, nyc, report.Coordinates["10001"])
	assert.Equal(t, la, report.Coordinates["90210"])
	assert.True(t, report.Coordinates["00000"].IsAbsent())
	assert.Equal(t, []string{"00000"}, report.Unresolved)
	assert.Equal(t, 3, report.Lookups)

	// Second pass is served from cache.
	again := resolver.ResolveAll(ctx, []string{"90210", "10001"})
	assert.Equal(t, 0, again.Lookups)
	assert.Empty(t, again.Unresolved)
}

func TestResolver_ConcurrentMissesShareOneLookup(t *testing.T) {
	resolver, geocoder := newTestResolver(t)
	want := entity.NewCoordinate(41.8781, -87.6298)

	geocoder.EXPECT().Lookup(mock.Anything, "us", "60601").
		RunAndReturn(func(context.Context, string, string) (entity.Coordinate, error) {
			time.Sleep(20 * time.Millisecond)
			return want, nil
		}).Once()

	var wg sync.WaitGroup
	results := make([]entity.Coordinate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = resolver.Resolve(context.Background(), "60601")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestResolver_LeaderCancelDoesNotFailFollowers(t *testing.T) {
	resolver, geocoder := newTestResolver(t)
	want := entity.NewCoordinate(41.8781, -87.6298)

	started := make(chan struct{})
	release := make(chan struct{})
	geocoder.EXPECT().Lookup(mock.Anything, "us", "60601").
		RunAndReturn(func(ctx context.Context, _, _ string) (entity.Coordinate, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return entity.AbsentCoordinate, err
			}
			return want, nil
		}).Once()

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan entity.Coordinate, 1)
	go func() { leader <- resolver.Resolve(leaderCtx, "60601") }()
	<-started

	follower := make(chan entity.Coordinate, 1)
	go func() { follower <- resolver.Resolve(context.Background(), "60601") }()

	cancelLeader()
	select {
	case got := <-leader:
		assert.True(t, got.IsAbsent())
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared lookup")
	}

	close(release)
	select {
	case got := <-follower:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("follower never received the shared result")
	}
	assert.Equal(t, 1, resolver.CacheSize())
	assert.Equal(t, want, resolver.Resolve(context.Background(), "60601"))
}

func TestResolverFactory_IsolatesCaches(t *testing.T) {
	geocoder := mocksvc.NewMockGeocoder(t)
	cfg := &config.Config{Geocoding: testGeocodingConfig()}
	factory := NewResolverFactory(geocoder, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	want := entity.NewCoordinate(40.7506, -73.9972)
	geocoder.EXPECT().Lookup(mock.Anything, "us", "10001").Return(want, nil).Twice()

	first := factory.NewResolver()
	second := factory.NewResolver()

	assert.Equal(t, want, first.Resolve(context.Background(), "10001"))
	assert.Equal(t, want, second.Resolve(context.Background(), "10001"))
	assert.Equal(t, 1, first.CacheSize())
	assert.Equal(t, 1, second.CacheSize())
}

func TestPacer_Wait(t *testing.T) {
	p := NewPacer(0, 0)
	require.NoError(t, p.Wait(context.Background()))

	p = NewPacer(1, 1)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(ctx))
}
