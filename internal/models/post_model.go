package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID           int64        `db:"id" json:"id"`
	CampaignID   int64        `db:"campaign_id" json:"campaign_id"`
	AuthorID     int64        `db:"author_id" json:"author_id"`
	Title        string       `db:"title" json:"title"`
	Body         string       `db:"body" json:"body"`
	ImageURL     string       `db:"image_url" json:"image_url"`
	Status       string       `db:"status" json:"status"` // draft, scheduled, publishing, published, failed
	ScheduledFor sql.NullTime `db:"scheduled_for" json:"scheduled_for"`
	PublishedAt  sql.NullTime `db:"published_at" json:"published_at"`
	TweetID      string       `db:"tweet_id" json:"tweet_id"`
	LikeCount    int          `db:"like_count" json:"like_count"`
	RetweetCount int          `db:"retweet_count" json:"retweet_count"`
	ReplyCount   int          `db:"reply_count" json:"reply_count"`
	RetryCount   int          `db:"retry_count" json:"retry_count"`
	NextRetryAt  sql.NullTime `db:"next_retry_at" json:"next_retry_at"`
	JobID        string       `db:"job_id" json:"job_id"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// PublishAttempt records the outcome of one publish try, successful or not.
type PublishAttempt struct {
	ID           int64     `db:"id" json:"id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	Attempt      int       `db:"attempt" json:"attempt"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft      = "draft"
	PostStatusScheduled  = "scheduled"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)
