package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/models"
)

type MembershipRepository interface {
	GetRole(ctx context.Context, campaignID, userID int64) (string, bool, error)
	Create(ctx context.Context, tx *sql.Tx, member *models.CampaignMember) error
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignMember, error)
	Remove(ctx context.Context, campaignID, userID int64) error
}

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) GetRole(ctx context.Context, campaignID, userID int64) (string, bool, error) {
	query := `SELECT role FROM campaign_members WHERE campaign_id = $1 AND user_id = $2`

	var role string
	err := r.db.QueryRowContext(ctx, query, campaignID, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return role, true, nil
}

func (r *membershipRepository) Create(ctx context.Context, tx *sql.Tx, member *models.CampaignMember) error {
	query := `INSERT INTO campaign_members (campaign_id, user_id, role) VALUES ($1, $2, $3)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, member.CampaignID, member.UserID, member.Role)
	} else {
		_, err = r.db.ExecContext(ctx, query, member.CampaignID, member.UserID, member.Role)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *membershipRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignMember, error) {
	query := `SELECT campaign_id, user_id, role, created_at FROM campaign_members WHERE campaign_id = $1`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var members []*models.CampaignMember
	for rows.Next() {
		var member models.CampaignMember
		err := rows.Scan(&member.CampaignID, &member.UserID, &member.Role, &member.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		members = append(members, &member)
	}
	return members, nil
}

func (r *membershipRepository) Remove(ctx context.Context, campaignID, userID int64) error {
	query := `DELETE FROM campaign_members WHERE campaign_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, campaignID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
