package catalog

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesdesk/internal/shared"
)

func TestCacheKeysFollowGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	key, err := cache.Key(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "salesdesk:catalog:v1:products", key)
	mr.CheckGet(t, shared.CatalogVersionKey, "1")

	_, err = cache.Bump(ctx)
	require.NoError(t, err)
	key, err = cache.Key(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "salesdesk:catalog:v2:products", key)
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	key, err := cache.Key(ctx, "products")
	require.NoError(t, err)
	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return []string{"Pen"}, nil
	}

	var first, second []string
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	assert.Equal(t, []string{"Pen"}, second)
	assert.Equal(t, 1, loads)
	assert.Equal(t, time.Minute, mr.TTL(key))
}
