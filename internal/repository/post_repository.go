package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
)

const postColumns = `id, campaign_id, author_id, title, body, image_url, status, scheduled_for, published_at, tweet_id, like_count, retweet_count, reply_count, retry_count, next_retry_at, job_id, created_at, updated_at`

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, bool, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Remove(ctx context.Context, id int64) error
	SetSchedule(ctx context.Context, postID int64, when time.Time, jobID string) error
	ClearSchedule(ctx context.Context, postID int64) error
	ClaimForPublish(ctx context.Context, postID int64) (bool, error)
	MarkPublished(ctx context.Context, postID int64, tweetID string, at time.Time) error
	MarkFailed(ctx context.Context, postID int64, retryCount int, nextRetryAt *time.Time, jobID string) error
	ListDue(ctx context.Context, now time.Time) ([]*models.Post, error)
	ListPublished(ctx context.Context) ([]*models.Post, error)
	UpdateMetrics(ctx context.Context, postID int64, likes, retweets, replies int) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.CampaignID, &post.AuthorID, &post.Title, &post.Body, &post.ImageURL,
		&post.Status, &post.ScheduledFor, &post.PublishedAt, &post.TweetID,
		&post.LikeCount, &post.RetweetCount, &post.ReplyCount,
		&post.RetryCount, &post.NextRetryAt, &post.JobID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, bool, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return post, true, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (campaign_id, author_id, title, body, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.CampaignID, post.AuthorID, post.Title, post.Body, post.ImageURL, post.Status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.CampaignID, post.AuthorID, post.Title, post.Body, post.ImageURL, post.Status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE campaign_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			body = $2,
			image_url = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.ImageURL, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetSchedule(ctx context.Context, postID int64, when time.Time, jobID string) error {
	query := `
		UPDATE posts
		SET status = $1,
			scheduled_for = $2,
			job_id = $3,
			retry_count = 0,
			next_retry_at = NULL,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusScheduled, when, jobID, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) ClearSchedule(ctx context.Context, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			scheduled_for = NULL,
			job_id = '',
			next_retry_at = NULL,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusDraft, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ClaimForPublish transitions a post into publishing only if it is still
// claimable: scheduled, or failed with a retry job outstanding. Returns false
// when another worker, the sweep, or a cancellation got there first.
func (r *postRepository) ClaimForPublish(ctx context.Context, postID int64) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
		  AND (status = $4 OR (status = $5 AND job_id <> ''))
	`
	res, err := r.db.ExecContext(ctx, query, models.PostStatusPublishing, time.Now(), postID,
		models.PostStatusScheduled, models.PostStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}

func (r *postRepository) MarkPublished(ctx context.Context, postID int64, tweetID string, at time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			published_at = $2,
			tweet_id = $3,
			scheduled_for = NULL,
			job_id = '',
			retry_count = 0,
			next_retry_at = NULL,
			like_count = 0,
			retweet_count = 0,
			reply_count = 0,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, at, tweetID, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// MarkFailed leaves scheduled_for empty: only a scheduled post carries a
// schedule, a failed one carries next_retry_at (or nothing, terminally).
func (r *postRepository) MarkFailed(ctx context.Context, postID int64, retryCount int, nextRetryAt *time.Time, jobID string) error {
	query := `
		UPDATE posts
		SET status = $1,
			scheduled_for = NULL,
			retry_count = $2,
			next_retry_at = $3,
			job_id = $4,
			updated_at = $5
		WHERE id = $6
	`
	var next sql.NullTime
	if nextRetryAt != nil {
		next = sql.NullTime{Time: *nextRetryAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, retryCount, next, jobID, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND scheduled_for <= $2`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusScheduled, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) ListPublished(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND tweet_id <> ''`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPublished)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) UpdateMetrics(ctx context.Context, postID int64, likes, retweets, replies int) error {
	query := `
		UPDATE posts
		SET like_count = $1,
			retweet_count = $2,
			reply_count = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, likes, retweets, replies, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
