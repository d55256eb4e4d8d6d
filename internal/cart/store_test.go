package cart_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/cart"
)

func newStore(t *testing.T) (cart.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cart.Store{R: client, Prefix: "test", TTL: time.Hour}, mr
}

func TestStoreRoundTripKeepsOrder(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)

	c, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 0, c.Items().Len())

	a := cart.NewItem("A", "First")
	b := cart.NewItem("B", "Second")
	c.Add(a)
	c.Add(b)
	require.NoError(t, store.Save(ctx, id, c))
	require.Equal(t, time.Hour, mr.TTL("test:cart:"+id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []cart.Item{a, b}, loaded.Items().Slice())
}

func TestStoreLoadUnknownCart(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, uuid.NewString())
	require.ErrorIs(t, err, cart.ErrNotFound)

	_, err = store.Load(ctx, "not-a-uuid")
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestStoreExpiresCarts(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, err = store.Load(ctx, id)
	require.ErrorIs(t, err, cart.ErrNotFound)
}
