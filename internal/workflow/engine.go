package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrNoActiveJob      = errors.New("no active job for post")
	ErrPastSchedule     = errors.New("scheduled time is in the past")
	ErrAlreadyPublished = errors.New("post is already published")
	ErrNoIntegration    = errors.New("no active twitter integration")
)

const maxPublishRetries = 3

const retryBaseDelay = 5 * time.Minute

// Scheduler registers a delayed publish for a post and returns an opaque job
// id. Cancel is idempotent: cancelling a fired or unknown job is not an error.
type Scheduler interface {
	EnqueueAt(ctx context.Context, postID int64, at time.Time) (string, error)
	Cancel(ctx context.Context, jobID string) error
}

// Publisher is the external social API. All API-level failures (rate limit,
// auth, network) fold into a single error path.
type Publisher interface {
	PublishTweet(ctx context.Context, acc *models.TwitterIntegration, text, imageURL string) (*transfer.PublishedTweet, error)
	TweetMetrics(ctx context.Context, acc *models.TwitterIntegration, tweetID string) (*transfer.TweetMetrics, error)
}

// Engine drives the post lifecycle draft -> scheduled -> published | failed.
type Engine struct {
	pr    repository.PostRepository
	ir    repository.IntegrationRepository
	nr    repository.NotificationRepository
	pa    repository.PublishAttemptRepository
	sched Scheduler
	pub   Publisher
	now   func() time.Time
}

func NewEngine(
	pr repository.PostRepository,
	ir repository.IntegrationRepository,
	nr repository.NotificationRepository,
	pa repository.PublishAttemptRepository,
	sched Scheduler,
	pub Publisher) *Engine {
	return &Engine{
		pr:    pr,
		ir:    ir,
		nr:    nr,
		pa:    pa,
		sched: sched,
		pub:   pub,
		now:   time.Now,
	}
}

// Schedule registers a delayed publish for the post, replacing and cancelling
// any job already attached to it. The retry counter starts over: this is a
// user action, not a retry.
func (e *Engine) Schedule(ctx context.Context, postID int64, when time.Time) (string, error) {
	post, ok, err := e.pr.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	if post.Status == models.PostStatusPublished {
		return "", ErrAlreadyPublished
	}
	if !when.After(e.now()) {
		return "", ErrPastSchedule
	}

	if post.JobID != "" {
		if err := e.sched.Cancel(ctx, post.JobID); err != nil {
			slog.Info(err.Error())
		}
	}

	jobID, err := e.sched.EnqueueAt(ctx, postID, when)
	if err != nil {
		return "", err
	}

	if err := e.pr.SetSchedule(ctx, postID, when, jobID); err != nil {
		return "", err
	}

	return jobID, nil
}

// Cancel withdraws a pending publish and returns the post to draft. Signals
// ErrNoActiveJob when there is nothing to cancel; callers treat that as a
// no-op, not a failure.
func (e *Engine) Cancel(ctx context.Context, postID int64) error {
	post, ok, err := e.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if post.JobID == "" {
		return ErrNoActiveJob
	}

	if err := e.sched.Cancel(ctx, post.JobID); err != nil {
		slog.Info(err.Error())
	}

	return e.pr.ClearSchedule(ctx, postID)
}

// PublishNow pushes a post through the scheduled state and executes the
// publish immediately, so the same claim and retry machinery applies.
func (e *Engine) PublishNow(ctx context.Context, postID int64) error {
	post, ok, err := e.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if post.Status == models.PostStatusPublished {
		return ErrAlreadyPublished
	}

	if post.JobID != "" {
		if err := e.sched.Cancel(ctx, post.JobID); err != nil {
			slog.Info(err.Error())
		}
	}

	if err := e.pr.SetSchedule(ctx, postID, e.now(), ""); err != nil {
		return err
	}

	return e.ExecutePublish(ctx, postID)
}
