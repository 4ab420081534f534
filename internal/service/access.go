package service

import (
	"context"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
)

// canReadCampaign: public campaigns are readable by anyone, private ones by
// members only.
func canReadCampaign(ctx context.Context, mr repository.MembershipRepository, campaign *models.Campaign, userID int64) (bool, error) {
	if campaign.Visibility == models.VisibilityPublic {
		return true, nil
	}
	_, isMember, err := mr.GetRole(ctx, campaign.ID, userID)
	if err != nil {
		return false, err
	}
	return isMember, nil
}

// canManageCampaign: campaign-level writes need owner or admin.
func canManageCampaign(ctx context.Context, mr repository.MembershipRepository, campaignID, userID int64) (bool, error) {
	role, isMember, err := mr.GetRole(ctx, campaignID, userID)
	if err != nil {
		return false, err
	}
	if !isMember {
		return false, nil
	}
	return role == models.RoleOwner || role == models.RoleAdmin, nil
}

// canEditPost: the author edits their own posts; owners and admins edit any
// post in the campaign.
func canEditPost(ctx context.Context, mr repository.MembershipRepository, post *models.Post, userID int64) (bool, error) {
	if post.AuthorID == userID {
		return true, nil
	}
	return canManageCampaign(ctx, mr, post.CampaignID, userID)
}

// hasActiveSubscription is the scheduling gate: a subscription row whose
// status is active and whose period has not ended.
func hasActiveSubscription(ctx context.Context, sr repository.SubscriptionRepository, userID int64) (bool, error) {
	sub, isExist, err := sr.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !isExist {
		return false, nil
	}
	return sub.Status == "active" && sub.SubscriptionEndDate.After(time.Now()), nil
}
