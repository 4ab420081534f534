package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/workflow"
)

// MetricsJob refreshes engagement counts for published posts.
type MetricsJob struct {
	pr  repository.PostRepository
	ir  repository.IntegrationRepository
	pub workflow.Publisher
}

func NewMetricsJob(
	pr repository.PostRepository,
	ir repository.IntegrationRepository,
	pub workflow.Publisher) *MetricsJob {
	return &MetricsJob{
		pr:  pr,
		ir:  ir,
		pub: pub,
	}
}

func (j *MetricsJob) RefreshMetrics() {
	ctx := context.Background()

	posts, err := j.pr.ListPublished(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			acc, ok, err := j.ir.ResolveForCampaign(ctx, post.AuthorID, post.CampaignID)
			if err != nil || !ok {
				slog.Info("No usable integration for metrics refresh")
				return
			}

			metrics, err := j.pub.TweetMetrics(ctx, acc, post.TweetID)
			if err != nil {
				slog.Info(err.Error())
				return
			}

			if err := j.pr.UpdateMetrics(ctx, post.ID, metrics.Likes, metrics.Retweets, metrics.Replies); err != nil {
				slog.Info(err.Error())
			}
		}(post)
	}

	wg.Wait()
}
