package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	cache := NewCache(client, time.Minute)

	ctx := context.Background()
	_, ok, err := cache.GetSnapshot(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.SetSnapshot(ctx, NewSnapshot(testItems())))

	cached, ok, err := cache.GetSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, cached.Len())

	item, found := cached.FindByID("camp-deluxe")
	require.True(t, found)
	require.Equal(t, CostPerNightPerPerson, item.CostModel)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.GetSnapshot(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheNilClientIsNoop(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	_, ok, err := cache.GetSnapshot(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.SetSnapshot(context.Background(), NewSnapshot(nil)))
}
