package transfer

import (
	v "github.com/go-ozzo/ozzo-validation/v4"
)

type CampaignCreation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

func (b CampaignCreation) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Title, v.Required, v.Length(1, 200)),
		v.Field(&b.Visibility, v.Required, v.In("public", "private")),
	)
}

type CampaignUpdate struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

func (b CampaignUpdate) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.ID, v.Required),
		v.Field(&b.Title, v.Required, v.Length(1, 200)),
		v.Field(&b.Visibility, v.Required, v.In("public", "private")),
	)
}

type MemberAddition struct {
	CampaignID int64  `json:"campaign_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (b MemberAddition) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.CampaignID, v.Required),
		v.Field(&b.Email, v.Required),
		v.Field(&b.Role, v.Required, v.In("admin", "member")),
	)
}

type MemberRemoval struct {
	CampaignID int64 `json:"campaign_id"`
	UserID     int64 `json:"user_id"`
}

func (b MemberRemoval) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.CampaignID, v.Required),
		v.Field(&b.UserID, v.Required),
	)
}

// PostCreation arrives as multipart form fields; the optional image file is
// handled separately by the handler.
type PostCreation struct {
	CampaignID int64
	Title      string
	Body       string
}

func (b PostCreation) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.CampaignID, v.Required),
		v.Field(&b.Body, v.Required, v.Length(1, 280)),
	)
}

type PostUpdate struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (b PostUpdate) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.ID, v.Required),
		v.Field(&b.Body, v.Required, v.Length(1, 280)),
	)
}

type PostSchedule struct {
	ID           int64  `json:"id"`
	ScheduledFor string `json:"scheduled_for"` // 2006-01-02T15:04 local form value
}

func (b PostSchedule) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.ID, v.Required),
		v.Field(&b.ScheduledFor, v.Required, v.Date("2006-01-02T15:04")),
	)
}

type SettingsUpdate struct {
	Timezone           string `json:"timezone"`
	DefaultPublishTime string `json:"default_publish_time"` // 15:04:05
}

func (b SettingsUpdate) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Timezone, v.Required),
		v.Field(&b.DefaultPublishTime, v.Required, v.Date("15:04:05")),
	)
}
