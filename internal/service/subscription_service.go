package service

import (
	"context"
	"fmt"

	config "github.com/campaignflow/campaign-api/configs"
	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

type SubscriptionService interface {
	HandleSubscription(ctx context.Context, payload *transfer.SubscriptionEvent) error
}

type subscriptionService struct {
	cfg config.Config
	u   repository.UserRepository
	s   repository.SubscriptionRepository
}

func NewSubscriptionService(cfg config.Config, u repository.UserRepository, s repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		cfg: cfg,
		u:   u,
		s:   s,
	}
}

func (s *subscriptionService) HandleSubscription(ctx context.Context, payload *transfer.SubscriptionEvent) error {
	switch payload.EventType {
	case "subscription.paid":
		customerEmail := payload.Object.Customer.Email

		user, isExist, err := s.u.GetByEmail(ctx, customerEmail)
		if err != nil {
			return fmt.Errorf("fetching user by email failed: %w", err)
		}

		subscriptionInfo := &models.Subscription{
			SubscriptionID:      payload.Object.ID,
			SubscriptionEndDate: payload.Object.CurrentPeriodEndDate,
			Status:              payload.Object.Status,
		}

		if !isExist {
			newUser := &models.User{
				Email: customerEmail,
				Name:  payload.Object.Customer.Name,
			}
			userID, err := s.u.Create(ctx, nil, newUser)
			if err != nil {
				return err
			}

			subscriptionInfo.UserID = userID
			_, err = s.s.Create(ctx, subscriptionInfo)
			return err
		}

		subscriptionInfo.UserID = user.ID

		_, hasSub, err := s.s.GetByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if !hasSub {
			_, err = s.s.Create(ctx, subscriptionInfo)
			return err
		}
		return s.s.UpdateSubscription(ctx, subscriptionInfo)

	case "subscription.canceled", "subscription.expired":
		user, isExist, err := s.u.GetByEmail(ctx, payload.Object.Customer.Email)
		if err != nil || !isExist {
			return err
		}
		subscriptionInfo := &models.Subscription{
			UserID:              user.ID,
			SubscriptionID:      payload.Object.ID,
			SubscriptionEndDate: payload.Object.CurrentPeriodEndDate,
			Status:              payload.Object.Status,
		}
		return s.s.UpdateSubscription(ctx, subscriptionInfo)
	}

	return nil
}
