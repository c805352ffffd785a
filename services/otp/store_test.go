package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock { return &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)} }

func newRedisStore(t *testing.T, c *clock) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client).WithClock(c.Now), mr
}

func stores(t *testing.T, c *clock) map[string]Store {
	rs, _ := newRedisStore(t, c)
	return map[string]Store{
		"memory": NewMemoryStore().WithClock(c.Now),
		"redis":  rs,
	}
}

func TestStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t, newClock()) {
		t.Run(name, func(t *testing.T) {
			entry, err := store.Put(ctx, "40712345678", "123456", 5*time.Minute)
			require.NoError(t, err)
			require.Equal(t, 5*time.Minute, entry.ExpiresAt.Sub(entry.IssuedAt))

			got, err := store.Get(ctx, "40712345678")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, "123456", got.Code)
			require.True(t, got.ExpiresAt.Equal(entry.ExpiresAt))

			removed, err := store.Delete(ctx, "40712345678")
			require.NoError(t, err)
			require.True(t, removed)
			removed, err = store.Delete(ctx, "40712345678")
			require.NoError(t, err)
			require.False(t, removed)

			got, err = store.Get(ctx, "40712345678")
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestStorePutReplacesCodeAndResetsFailures(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t, newClock()) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Put(ctx, "40700000001", "111111", time.Minute)
			require.NoError(t, err)
			n, err := store.RecordFailure(ctx, "40700000001")
			require.NoError(t, err)
			require.EqualValues(t, 1, n)

			_, err = store.Put(ctx, "40700000001", "222222", time.Minute)
			require.NoError(t, err)

			got, err := store.Get(ctx, "40700000001")
			require.NoError(t, err)
			require.Equal(t, "222222", got.Code)

			n, err = store.RecordFailure(ctx, "40700000001")
			require.NoError(t, err)
			require.EqualValues(t, 1, n)
		})
	}
}

func TestMemoryStoreKeepsExpiredEntryDuringRetention(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := NewMemoryStore().WithClock(c.Now)

	_, err := store.Put(ctx, "40711111111", "654321", 5*time.Minute)
	require.NoError(t, err)

	c.Advance(6 * time.Minute)
	got, err := store.Get(ctx, "40711111111")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Expired(c.Now()))

	c.Advance(DefaultRetention)
	got, err = store.Get(ctx, "40711111111")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreKeyTTLCoversRetention(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, newClock())

	_, err := store.Put(ctx, "40722222222", "000111", 5*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute+DefaultRetention, mr.TTL(otpKeyPrefix+"40722222222"))

	_, err = store.RecordFailure(ctx, "40722222222")
	require.NoError(t, err)
	require.Equal(t, mr.TTL(otpKeyPrefix+"40722222222"), mr.TTL(attemptsKeyPrefix+"40722222222"))

	mr.FastForward(5*time.Minute + DefaultRetention + time.Second)
	got, err := store.Get(ctx, "40722222222")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRecordFailureWithoutEntry(t *testing.T) {
	n, err := NewMemoryStore().RecordFailure(context.Background(), "40799999999")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRedisRecordFailureAlwaysLeavesTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, newClock())

	// No pending code: the counter falls back to the retention period.
	_, err := store.RecordFailure(ctx, "40733333333")
	require.NoError(t, err)
	require.Equal(t, DefaultRetention, mr.TTL(attemptsKeyPrefix+"40733333333"))

	n, err := store.RecordFailure(ctx, "40733333333")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Positive(t, mr.TTL(attemptsKeyPrefix+"40733333333"))

	mr.FastForward(DefaultRetention + time.Second)
	require.False(t, mr.Exists(attemptsKeyPrefix+"40733333333"))
}
