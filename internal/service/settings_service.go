package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, timezone, publishTime string) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return nil, ErrNotFound
	}

	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, timezone, publishTime string) error {
	const layout = "15:04:05"

	parsedTime, err := time.Parse(layout, publishTime)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		slog.Info(err.Error())
		return err
	}

	settings := models.Settings{
		Timezone:           timezone,
		DefaultPublishTime: parsedTime,
	}

	_, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !isExist {
		settings.UserID = userID
		_, err = s.sr.Create(ctx, &settings)
		return err
	}

	return s.sr.UpdateSettings(ctx, &settings, userID)
}
