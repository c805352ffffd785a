package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"imobil/models"

	"github.com/hibiken/asynq"
)

const TypePromotionExpire = "listing:promotion_expire"

// NewPromotionExpiryTask builds the delayed task that unfeatures a listing at
// featuredUntil. The task id is derived from the listing and the window end, so
// re-confirming the same promotion does not queue a second job.
func NewPromotionExpiryTask(listingID string, featuredUntil time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.PromotionExpiryPayload{ListingID: listingID, FeaturedUntil: featuredUntil.UTC()})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePromotionExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(featuredUntil),
		asynq.TaskID(fmt.Sprintf("promo:%s:%d", listingID, featuredUntil.Unix())),
		asynq.MaxRetry(10),
	}
	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqScheduler queues promotion expiry jobs.
type AsynqScheduler struct {
	client Enqueuer
}

func NewAsynqScheduler(client Enqueuer) *AsynqScheduler {
	return &AsynqScheduler{client: client}
}

func (s *AsynqScheduler) SchedulePromotionExpiry(ctx context.Context, listingID string, featuredUntil time.Time) error {
	task, opts, err := NewPromotionExpiryTask(listingID, featuredUntil)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue promotion expiry for %s: %w", listingID, err)
	}
	return nil
}
