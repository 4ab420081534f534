package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

// ExecutePublish is fired by the scheduler at the due time and by the backup
// sweep. The claim is the first thing that happens: whichever caller moves
// the post into publishing does the work, every other caller exits quietly.
func (e *Engine) ExecutePublish(ctx context.Context, postID int64) error {
	claimed, err := e.pr.ClaimForPublish(ctx, postID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	post, ok, err := e.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	attempt := post.RetryCount + 1
	tweet, pubErr := e.publishOnce(ctx, post)
	if pubErr == nil {
		if err := e.pr.MarkPublished(ctx, postID, tweet.ID, e.now()); err != nil {
			return err
		}
		e.recordAttempt(ctx, postID, attempt, "")
		e.notify(ctx, post.AuthorID, models.NotificationPostPublished,
			fmt.Sprintf("Your post %q was published", post.Title), postID)
		return nil
	}

	slog.Info(pubErr.Error())
	e.recordAttempt(ctx, postID, attempt, pubErr.Error())

	if post.RetryCount < maxPublishRetries {
		delay := retryBaseDelay
		for i := 0; i < post.RetryCount; i++ {
			delay *= 3
		}
		nextAt := e.now().Add(delay)

		jobID, err := e.sched.EnqueueAt(ctx, postID, nextAt)
		if err != nil {
			slog.Info(err.Error())
			// Retry could not be registered; settle terminally rather than
			// leave a scheduled state nothing will ever fire.
			return e.pr.MarkFailed(ctx, postID, post.RetryCount, nil, "")
		}

		return e.pr.MarkFailed(ctx, postID, post.RetryCount+1, &nextAt, jobID)
	}

	if err := e.pr.MarkFailed(ctx, postID, post.RetryCount, nil, ""); err != nil {
		return err
	}
	e.notify(ctx, post.AuthorID, models.NotificationPublishFailed,
		fmt.Sprintf("Publishing %q failed after %d attempts", post.Title, attempt), postID)
	return nil
}

func (e *Engine) publishOnce(ctx context.Context, post *models.Post) (*transfer.PublishedTweet, error) {
	acc, ok, err := e.ir.ResolveForCampaign(ctx, post.AuthorID, post.CampaignID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoIntegration
	}

	return e.pub.PublishTweet(ctx, acc, post.Body, post.ImageURL)
}

// SweepDuePosts is the safety net for lost jobs: it publishes every post
// still sitting in scheduled past its due time. Posts whose job already fired
// no longer match the scheduled filter, so back-to-back sweeps are no-ops.
func (e *Engine) SweepDuePosts(ctx context.Context) error {
	due, err := e.pr.ListDue(ctx, e.now())
	if err != nil {
		return err
	}

	for _, post := range due {
		if err := e.ExecutePublish(ctx, post.ID); err != nil {
			slog.Info(err.Error())
		}
	}
	return nil
}

func (e *Engine) recordAttempt(ctx context.Context, postID int64, attempt int, errMsg string) {
	_, err := e.pa.Create(ctx, &models.PublishAttempt{
		PostID:       postID,
		Attempt:      attempt,
		ErrorMessage: errMsg,
	})
	if err != nil {
		slog.Info(err.Error())
	}
}

func (e *Engine) notify(ctx context.Context, userID int64, kind, message string, postID int64) {
	_, err := e.nr.Create(ctx, &models.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		PostID:  sql.NullInt64{Int64: postID, Valid: true},
	})
	if err != nil {
		slog.Info(err.Error())
	}
}
