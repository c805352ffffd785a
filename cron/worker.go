package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"imobil/config"
	listingRepo "imobil/database/repository/listing"
	"imobil/models"
	"imobil/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the job queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPromotionWorker runs the promotion expiry worker in the background. The
// returned server must be shut down on exit.
func InitPromotionWorker(ctx context.Context, listings listingRepo.ListingRepository, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePromotionExpire, HandlePromotionExpiryTask(listings, logger, time.Now))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("starting promotion worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("promotion worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("promotion worker gave up; promotions will not expire until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandlePromotionExpiryTask unfeatures a listing whose window has ended. A
// listing promoted again since the job was queued keeps its newer window.
func HandlePromotionExpiryTask(listings listingRepo.ListingRepository, logger *zap.Logger, now func() time.Time) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PromotionExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid promotion expiry payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}
		id, err := primitive.ObjectIDFromHex(p.ListingID)
		if err != nil {
			logger.Error("invalid listing id in promotion expiry", zap.String("listingId", p.ListingID))
			return fmt.Errorf("listing id %q: %w", p.ListingID, asynq.SkipRetry)
		}

		cleared, err := listings.ClearExpiredPromotion(ctx, id, now())
		if err != nil {
			if errors.Is(err, listingRepo.ErrNotFound) {
				return nil
			}
			logger.Error("failed to clear promotion", zap.String("listingId", p.ListingID), zap.Error(err))
			return err
		}
		logger.Info("promotion expiry processed",
			zap.String("listingId", p.ListingID), zap.Time("featuredUntil", p.FeaturedUntil), zap.Bool("cleared", cleared))
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to surface
// outages at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
