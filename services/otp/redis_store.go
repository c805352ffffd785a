package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"imobil/models"

	"github.com/go-redis/redis/v8"
)

const (
	otpKeyPrefix      = "otp:"
	attemptsKeyPrefix = "otp_attempts:"
)

// RedisStore keeps pending codes in Redis so every instance sees the same state
// and expiry is enforced by key TTL.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	now       func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, retention: DefaultRetention, now: time.Now}
}

// WithClock overrides the time source used to stamp entries.
func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}

func (s *RedisStore) Put(ctx context.Context, phone, code string, ttl time.Duration) (models.PendingOTP, error) {
	issued := s.now()
	entry := models.PendingOTP{
		Phone:     phone,
		Code:      code,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return models.PendingOTP{}, fmt.Errorf("failed to marshal otp: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKeyPrefix+phone, data, ttl+s.retention)
		pipe.Del(ctx, attemptsKeyPrefix+phone)
		return nil
	})
	if err != nil {
		return models.PendingOTP{}, fmt.Errorf("failed to store otp: %w", err)
	}
	return entry, nil
}

func (s *RedisStore) Get(ctx context.Context, phone string) (*models.PendingOTP, error) {
	data, err := s.client.Get(ctx, otpKeyPrefix+phone).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve otp: %w", err)
	}
	var entry models.PendingOTP
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, otpKeyPrefix+phone)
		pipe.Del(ctx, attemptsKeyPrefix+phone)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete otp: %w", err)
	}
	return removed.Val() > 0, nil
}

// countFailure increments the attempt counter and aligns its TTL with the code
// it guards, falling back to the retention period once the code is gone.
var countFailure = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[2])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[1], ttl)
elseif redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func (s *RedisStore) RecordFailure(ctx context.Context, phone string) (int64, error) {
	keys := []string{attemptsKeyPrefix + phone, otpKeyPrefix + phone}
	attempts, err := countFailure.Run(ctx, s.client, keys, s.retention.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to count otp attempt: %w", err)
	}
	return attempts, nil
}
