package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// PublishScheduler registers delayed publish tasks with asynq. It implements
// workflow.Scheduler.
type PublishScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewPublishScheduler(client *asynq.Client, inspector *asynq.Inspector) *PublishScheduler {
	return &PublishScheduler{client: client, inspector: inspector}
}

func (s *PublishScheduler) EnqueueAt(ctx context.Context, postID int64, at time.Time) (string, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TaskTypePublishPost, payload)

	// asynq retries are disabled: the workflow owns the retry policy.
	info, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(at), asynq.MaxRetry(0))
	if err != nil {
		return "", err
	}

	log.Printf("Publish task scheduled: post=%d at=%s task=%s", postID, at.Format(time.RFC3339), info.ID)
	return info.ID, nil
}

func (s *PublishScheduler) Cancel(ctx context.Context, jobID string) error {
	err := s.inspector.DeleteTask(queueName, jobID)
	if err != nil {
		// Already fired or already deleted both count as cancelled.
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil
		}
		return err
	}
	return nil
}
