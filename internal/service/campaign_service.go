package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

type CampaignService interface {
	Create(ctx context.Context, userID int64, cc *transfer.CampaignCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Campaign, error)
	CampaignInfo(ctx context.Context, campaignID, userID int64) (*models.Campaign, error)
	Update(ctx context.Context, userID int64, cu *transfer.CampaignUpdate) error
	Remove(ctx context.Context, userID, campaignID int64) error
	AddMember(ctx context.Context, userID int64, ma *transfer.MemberAddition) error
	RemoveMember(ctx context.Context, userID int64, mr *transfer.MemberRemoval) error
	ListMembers(ctx context.Context, campaignID, userID int64) ([]*models.CampaignMember, error)
}

type campaignService struct {
	db *sql.DB
	cr repository.CampaignRepository
	mr repository.MembershipRepository
	ur repository.UserRepository
	nr repository.NotificationRepository
}

func NewCampaignService(
	db *sql.DB,
	cr repository.CampaignRepository,
	mr repository.MembershipRepository,
	ur repository.UserRepository,
	nr repository.NotificationRepository) CampaignService {
	return &campaignService{
		db: db,
		cr: cr,
		mr: mr,
		ur: ur,
		nr: nr,
	}
}

// Create inserts the campaign and its owner membership in one transaction so
// a campaign never exists without an owner row.
func (s *campaignService) Create(ctx context.Context, userID int64, cc *transfer.CampaignCreation) (int64, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	campaign := models.Campaign{
		OwnerID:     userID,
		Title:       cc.Title,
		Description: cc.Description,
		Visibility:  cc.Visibility,
	}

	campaignID, err := s.cr.Create(ctx, tx, &campaign)
	if err != nil {
		return 0, fmt.Errorf("error creating campaign: %w", err)
	}

	member := models.CampaignMember{
		CampaignID: campaignID,
		UserID:     userID,
		Role:       models.RoleOwner,
	}
	if err = s.mr.Create(ctx, tx, &member); err != nil {
		return 0, fmt.Errorf("error creating owner membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return campaignID, nil
}

func (s *campaignService) List(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	campaigns, err := s.cr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *campaignService) CampaignInfo(ctx context.Context, campaignID, userID int64) (*models.Campaign, error) {
	campaign, isExist, err := s.cr.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	allowed, err := canReadCampaign(ctx, s.mr, campaign, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	return campaign, nil
}

func (s *campaignService) Update(ctx context.Context, userID int64, cu *transfer.CampaignUpdate) error {
	campaign, isExist, err := s.cr.GetByID(ctx, cu.ID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canManageCampaign(ctx, s.mr, campaign.ID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	campaign.Title = cu.Title
	campaign.Description = cu.Description
	campaign.Visibility = cu.Visibility

	return s.cr.Update(ctx, campaign)
}

func (s *campaignService) Remove(ctx context.Context, userID, campaignID int64) error {
	campaign, isExist, err := s.cr.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	role, isMember, err := s.mr.GetRole(ctx, campaign.ID, userID)
	if err != nil {
		return err
	}
	if !isMember || role != models.RoleOwner {
		return ErrUnauthorized
	}

	return s.cr.Remove(ctx, campaignID)
}

func (s *campaignService) AddMember(ctx context.Context, userID int64, ma *transfer.MemberAddition) error {
	_, isExist, err := s.cr.GetByID(ctx, ma.CampaignID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canManageCampaign(ctx, s.mr, ma.CampaignID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	user, isExist, err := s.ur.GetByEmail(ctx, ma.Email)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	member := models.CampaignMember{
		CampaignID: ma.CampaignID,
		UserID:     user.ID,
		Role:       ma.Role,
	}
	if err := s.mr.Create(ctx, nil, &member); err != nil {
		return err
	}

	_, err = s.nr.Create(ctx, &models.Notification{
		UserID:  user.ID,
		Kind:    models.NotificationMemberAdded,
		Message: "You were added to a campaign",
	})
	if err != nil {
		slog.Info(err.Error())
	}

	return nil
}

func (s *campaignService) RemoveMember(ctx context.Context, userID int64, mr *transfer.MemberRemoval) error {
	campaign, isExist, err := s.cr.GetByID(ctx, mr.CampaignID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canManageCampaign(ctx, s.mr, mr.CampaignID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	// The owner row never leaves.
	if mr.UserID == campaign.OwnerID {
		return ErrUnauthorized
	}

	return s.mr.Remove(ctx, mr.CampaignID, mr.UserID)
}

func (s *campaignService) ListMembers(ctx context.Context, campaignID, userID int64) ([]*models.CampaignMember, error) {
	campaign, isExist, err := s.cr.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	allowed, err := canReadCampaign(ctx, s.mr, campaign, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	return s.mr.ListByCampaign(ctx, campaignID)
}
