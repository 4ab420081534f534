package service

import (
	"context"
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u  repository.UserRepository
	ir repository.IntegrationRepository
}

func NewUserService(u repository.UserRepository, ir repository.IntegrationRepository) UserService {
	return &userService{
		u:  u,
		ir: ir,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	return user, nil
}

// RemoveUser deletes the account together with its connected Twitter
// integrations, so no stored OAuth token outlives the user.
func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	integrations, err := s.ir.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, integration := range integrations {
		if err := s.ir.Remove(ctx, integration.ID); err != nil {
			slog.Info(err.Error())
		}
	}

	return s.u.Remove(ctx, userID)
}
