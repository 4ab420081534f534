package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/service"
)

// TokenRefreshJob renews Twitter OAuth tokens shortly before they expire so
// a due publish never runs into a stale credential.
type TokenRefreshJob struct {
	ir repository.IntegrationRepository
	tw service.TwitterService
}

func NewTokenRefreshJob(ir repository.IntegrationRepository, tw service.TwitterService) *TokenRefreshJob {
	return &TokenRefreshJob{
		ir: ir,
		tw: tw,
	}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := j.ir.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.TwitterIntegration) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.tw.RefreshTwitterToken(ctx, acc); err != nil {
				slog.Info("Unable to refresh Twitter token")
			}
		}(acc)
	}

	wg.Wait()
}
