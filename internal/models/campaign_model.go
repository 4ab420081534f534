package models

import "time"

type Campaign struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Visibility  string    `db:"visibility" json:"visibility"` // public, private
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CampaignMember struct {
	CampaignID int64     `db:"campaign_id" json:"campaign_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Role       string    `db:"role" json:"role"` // owner, admin, member
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)
