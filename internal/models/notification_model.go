package models

import (
	"database/sql"
	"time"
)

type Notification struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Kind      string        `db:"kind" json:"kind"`
	Message   string        `db:"message" json:"message"`
	PostID    sql.NullInt64 `db:"post_id" json:"post_id"`
	Read      bool          `db:"read" json:"read"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

const (
	NotificationPostPublished = "post_published"
	NotificationPublishFailed = "publish_failed"
	NotificationMemberAdded   = "member_added"
)
