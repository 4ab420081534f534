package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
)

type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error)
	Create(ctx context.Context, tx *sql.Tx, campaign *models.Campaign) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Remove(ctx context.Context, id int64) error
}

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error) {
	var campaign models.Campaign
	query := `SELECT id, owner_id, title, description, visibility, created_at, updated_at FROM campaigns WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&campaign.ID, &campaign.OwnerID, &campaign.Title,
		&campaign.Description, &campaign.Visibility, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &campaign, true, nil
}

func (r *campaignRepository) Create(ctx context.Context, tx *sql.Tx, campaign *models.Campaign) (int64, error) {
	query := `
		INSERT INTO campaigns (owner_id, title, description, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, campaign.OwnerID, campaign.Title, campaign.Description, campaign.Visibility).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, campaign.OwnerID, campaign.Title, campaign.Description, campaign.Visibility).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *campaignRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	query := `
		SELECT c.id, c.owner_id, c.title, c.description, c.visibility, c.created_at, c.updated_at
		FROM campaigns c
		JOIN campaign_members m ON m.campaign_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		var campaign models.Campaign
		err := rows.Scan(&campaign.ID, &campaign.OwnerID, &campaign.Title, &campaign.Description,
			&campaign.Visibility, &campaign.CreatedAt, &campaign.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		campaigns = append(campaigns, &campaign)
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $1,
			description = $2,
			visibility = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, campaign.Title, campaign.Description, campaign.Visibility, time.Now(), campaign.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *campaignRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM campaigns WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
