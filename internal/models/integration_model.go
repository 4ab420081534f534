package models

import (
	"database/sql"
	"time"
)

// TwitterIntegration holds the OAuth tokens for a connected account.
// CampaignID is NULL for a user's general integration; a campaign-scoped
// row, if active, wins when resolving credentials for that campaign's posts.
type TwitterIntegration struct {
	ID             int64         `db:"id" json:"id"`
	UserID         int64         `db:"user_id" json:"user_id"`
	CampaignID     sql.NullInt64 `db:"campaign_id" json:"campaign_id"`
	AccessToken    string        `db:"access_token" json:"-"`
	RefreshToken   string        `db:"refresh_token" json:"-"`
	TwitterUserID  string        `db:"twitter_user_id" json:"twitter_user_id"`
	Username       string        `db:"username" json:"username"`
	Status         string        `db:"status" json:"status"` // active, revoked, expired
	TokenExpiresAt time.Time     `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

const (
	IntegrationStatusActive  = "active"
	IntegrationStatusRevoked = "revoked"
	IntegrationStatusExpired = "expired"
)
