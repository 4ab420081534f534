package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
)

const integrationColumns = `id, user_id, campaign_id, access_token, refresh_token, twitter_user_id, username, status, token_expires_at, created_at, updated_at`

type IntegrationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.TwitterIntegration, bool, error)
	// ResolveForCampaign returns the credentials to use for a campaign's
	// posts: an active campaign-scoped integration if one exists, else the
	// user's active general integration.
	ResolveForCampaign(ctx context.Context, userID, campaignID int64) (*models.TwitterIntegration, bool, error)
	Create(ctx context.Context, tx *sql.Tx, integration *models.TwitterIntegration) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.TwitterIntegration, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]*models.TwitterIntegration, error)
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	CheckByUserID(ctx context.Context, id, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type integrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func scanIntegration(row interface{ Scan(...any) error }) (*models.TwitterIntegration, error) {
	var in models.TwitterIntegration
	err := row.Scan(&in.ID, &in.UserID, &in.CampaignID, &in.AccessToken, &in.RefreshToken,
		&in.TwitterUserID, &in.Username, &in.Status, &in.TokenExpiresAt, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *integrationRepository) GetByID(ctx context.Context, id int64) (*models.TwitterIntegration, bool, error) {
	query := `SELECT ` + integrationColumns + ` FROM twitter_integrations WHERE id = $1`
	in, err := scanIntegration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return in, true, nil
}

func (r *integrationRepository) ResolveForCampaign(ctx context.Context, userID, campaignID int64) (*models.TwitterIntegration, bool, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM twitter_integrations
		WHERE user_id = $1
		  AND status = $2
		  AND (campaign_id = $3 OR campaign_id IS NULL)
		ORDER BY campaign_id NULLS LAST, created_at DESC
		LIMIT 1
	`
	in, err := scanIntegration(r.db.QueryRowContext(ctx, query, userID, models.IntegrationStatusActive, campaignID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return in, true, nil
}

func (r *integrationRepository) Create(ctx context.Context, tx *sql.Tx, integration *models.TwitterIntegration) (int64, error) {
	query := `
		INSERT INTO twitter_integrations (user_id, campaign_id, access_token, refresh_token, twitter_user_id, username, status, token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, integration.UserID, integration.CampaignID, integration.AccessToken,
			integration.RefreshToken, integration.TwitterUserID, integration.Username, integration.Status, integration.TokenExpiresAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, integration.UserID, integration.CampaignID, integration.AccessToken,
			integration.RefreshToken, integration.TwitterUserID, integration.Username, integration.Status, integration.TokenExpiresAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *integrationRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.TwitterIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM twitter_integrations WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.TwitterIntegration
	for rows.Next() {
		in, err := scanIntegration(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		integrations = append(integrations, in)
	}
	return integrations, nil
}

func (r *integrationRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*models.TwitterIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM twitter_integrations WHERE status = $1 AND token_expires_at BETWEEN $2 AND $3`
	rows, err := r.db.QueryContext(ctx, query, models.IntegrationStatusActive, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.TwitterIntegration
	for rows.Next() {
		in, err := scanIntegration(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		integrations = append(integrations, in)
	}
	return integrations, nil
}

func (r *integrationRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE twitter_integrations
		SET access_token = $1,
			refresh_token = $2,
			token_expires_at = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *integrationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE twitter_integrations SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *integrationRepository) CheckByUserID(ctx context.Context, id, userID int64) (bool, error) {
	query := `SELECT 1 FROM twitter_integrations WHERE id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *integrationRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM twitter_integrations WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
