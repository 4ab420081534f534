package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/transfer"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakePostRepo struct {
	posts map[int64]*models.Post
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[int64]*models.Post)}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, bool, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, false, nil
	}
	copied := *p
	return &copied, true, nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	r.posts[post.ID] = post
	return post.ID, nil
}

func (r *fakePostRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.CampaignID == campaignID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SetSchedule(ctx context.Context, postID int64, when time.Time, jobID string) error {
	p := r.posts[postID]
	p.Status = models.PostStatusScheduled
	p.ScheduledFor = sql.NullTime{Time: when, Valid: true}
	p.JobID = jobID
	p.RetryCount = 0
	p.NextRetryAt = sql.NullTime{}
	return nil
}

func (r *fakePostRepo) ClearSchedule(ctx context.Context, postID int64) error {
	p := r.posts[postID]
	p.Status = models.PostStatusDraft
	p.ScheduledFor = sql.NullTime{}
	p.JobID = ""
	p.RetryCount = 0
	p.NextRetryAt = sql.NullTime{}
	return nil
}

func (r *fakePostRepo) ClaimForPublish(ctx context.Context, postID int64) (bool, error) {
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	claimable := p.Status == models.PostStatusScheduled ||
		(p.Status == models.PostStatusFailed && p.JobID != "")
	if !claimable {
		return false, nil
	}
	p.Status = models.PostStatusPublishing
	return true, nil
}

func (r *fakePostRepo) MarkPublished(ctx context.Context, postID int64, tweetID string, at time.Time) error {
	p := r.posts[postID]
	p.Status = models.PostStatusPublished
	p.TweetID = tweetID
	p.PublishedAt = sql.NullTime{Time: at, Valid: true}
	p.ScheduledFor = sql.NullTime{}
	p.NextRetryAt = sql.NullTime{}
	p.JobID = ""
	p.RetryCount = 0
	return nil
}

func (r *fakePostRepo) MarkFailed(ctx context.Context, postID int64, retryCount int, nextRetryAt *time.Time, jobID string) error {
	p := r.posts[postID]
	p.Status = models.PostStatusFailed
	p.ScheduledFor = sql.NullTime{}
	p.RetryCount = retryCount
	p.JobID = jobID
	if nextRetryAt != nil {
		p.NextRetryAt = sql.NullTime{Time: *nextRetryAt, Valid: true}
	} else {
		p.NextRetryAt = sql.NullTime{}
	}
	return nil
}

func (r *fakePostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.Status == models.PostStatusScheduled && p.ScheduledFor.Valid && !p.ScheduledFor.Time.After(now) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListPublished(ctx context.Context) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.Status == models.PostStatusPublished {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdateMetrics(ctx context.Context, postID int64, likes, retweets, replies int) error {
	p := r.posts[postID]
	p.LikeCount = likes
	p.RetweetCount = retweets
	p.ReplyCount = replies
	return nil
}

type fakeIntegrationRepo struct {
	byCampaign map[int64]*models.TwitterIntegration
	general    map[int64]*models.TwitterIntegration
}

func (r *fakeIntegrationRepo) GetByID(ctx context.Context, id int64) (*models.TwitterIntegration, bool, error) {
	return nil, false, nil
}

func (r *fakeIntegrationRepo) ResolveForCampaign(ctx context.Context, userID, campaignID int64) (*models.TwitterIntegration, bool, error) {
	if acc, ok := r.byCampaign[campaignID]; ok {
		return acc, true, nil
	}
	if acc, ok := r.general[userID]; ok {
		return acc, true, nil
	}
	return nil, false, nil
}

func (r *fakeIntegrationRepo) Create(ctx context.Context, tx *sql.Tx, integration *models.TwitterIntegration) (int64, error) {
	return 0, nil
}

func (r *fakeIntegrationRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.TwitterIntegration, error) {
	return nil, nil
}

func (r *fakeIntegrationRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]*models.TwitterIntegration, error) {
	return nil, nil
}

func (r *fakeIntegrationRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

func (r *fakeIntegrationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return nil
}

func (r *fakeIntegrationRepo) CheckByUserID(ctx context.Context, id, userID int64) (bool, error) {
	return false, nil
}

func (r *fakeIntegrationRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (int64, error) {
	r.created = append(r.created, n)
	return int64(len(r.created)), nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return r.created, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	return nil
}

type fakeAttemptRepo struct {
	attempts []*models.PublishAttempt
}

func (r *fakeAttemptRepo) Create(ctx context.Context, a *models.PublishAttempt) (int64, error) {
	r.attempts = append(r.attempts, a)
	return int64(len(r.attempts)), nil
}

func (r *fakeAttemptRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error) {
	return r.attempts, nil
}

type enqueuedJob struct {
	jobID  string
	postID int64
	at     time.Time
}

type fakeScheduler struct {
	seq        int
	enqueued   []enqueuedJob
	cancelled  []string
	enqueueErr error
}

func (s *fakeScheduler) EnqueueAt(ctx context.Context, postID int64, at time.Time) (string, error) {
	if s.enqueueErr != nil {
		return "", s.enqueueErr
	}
	s.seq++
	id := fmt.Sprintf("job-%d", s.seq)
	s.enqueued = append(s.enqueued, enqueuedJob{jobID: id, postID: postID, at: at})
	return id, nil
}

func (s *fakeScheduler) Cancel(ctx context.Context, jobID string) error {
	s.cancelled = append(s.cancelled, jobID)
	return nil
}

type fakePublisher struct {
	failures int
	calls    int
	accounts []*models.TwitterIntegration
}

func (p *fakePublisher) PublishTweet(ctx context.Context, acc *models.TwitterIntegration, text, imageURL string) (*transfer.PublishedTweet, error) {
	p.calls++
	p.accounts = append(p.accounts, acc)
	if p.calls <= p.failures {
		return nil, errors.New("twitter: 503 service unavailable")
	}
	return &transfer.PublishedTweet{ID: fmt.Sprintf("tweet-%d", p.calls)}, nil
}

func (p *fakePublisher) TweetMetrics(ctx context.Context, acc *models.TwitterIntegration, tweetID string) (*transfer.TweetMetrics, error) {
	return &transfer.TweetMetrics{}, nil
}

type testEnv struct {
	engine *Engine
	posts  *fakePostRepo
	ints   *fakeIntegrationRepo
	notes  *fakeNotificationRepo
	tries  *fakeAttemptRepo
	sched  *fakeScheduler
	pub    *fakePublisher
}

func newTestEnv(posts ...*models.Post) *testEnv {
	env := &testEnv{
		posts: newFakePostRepo(posts...),
		ints: &fakeIntegrationRepo{
			byCampaign: make(map[int64]*models.TwitterIntegration),
			general: map[int64]*models.TwitterIntegration{
				1: {ID: 10, UserID: 1, Username: "general", Status: models.IntegrationStatusActive},
			},
		},
		notes: &fakeNotificationRepo{},
		tries: &fakeAttemptRepo{},
		sched: &fakeScheduler{},
		pub:   &fakePublisher{},
	}
	env.engine = NewEngine(env.posts, env.ints, env.notes, env.tries, env.sched, env.pub)
	env.engine.now = func() time.Time { return testNow }
	return env
}

func draftPost(id int64) *models.Post {
	return &models.Post{
		ID:         id,
		CampaignID: 100,
		AuthorID:   1,
		Title:      "Launch day",
		Body:       "We are live!",
		Status:     models.PostStatusDraft,
	}
}

func TestScheduleSetsJobAndState(t *testing.T) {
	env := newTestEnv(draftPost(1))
	when := testNow.Add(2 * time.Hour)

	jobID, err := env.engine.Schedule(context.Background(), 1, when)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if jobID == "" {
		t.Fatal("expected a job id")
	}

	post := env.posts.posts[1]
	if post.Status != models.PostStatusScheduled {
		t.Errorf("status = %q, want scheduled", post.Status)
	}
	if post.JobID != jobID {
		t.Errorf("job id = %q, want %q", post.JobID, jobID)
	}
	if !post.ScheduledFor.Valid || !post.ScheduledFor.Time.Equal(when) {
		t.Errorf("scheduled_for = %v, want %v", post.ScheduledFor, when)
	}
	if len(env.sched.enqueued) != 1 || !env.sched.enqueued[0].at.Equal(when) {
		t.Errorf("enqueued = %+v, want one job at %v", env.sched.enqueued, when)
	}
}

func TestScheduleRejectsPastTime(t *testing.T) {
	env := newTestEnv(draftPost(1))

	_, err := env.engine.Schedule(context.Background(), 1, testNow.Add(-time.Minute))
	if !errors.Is(err, ErrPastSchedule) {
		t.Fatalf("err = %v, want ErrPastSchedule", err)
	}
	if len(env.sched.enqueued) != 0 {
		t.Errorf("no job should be enqueued, got %d", len(env.sched.enqueued))
	}
}

func TestScheduleRejectsPublishedPost(t *testing.T) {
	post := draftPost(1)
	post.Status = models.PostStatusPublished
	env := newTestEnv(post)

	_, err := env.engine.Schedule(context.Background(), 1, testNow.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("err = %v, want ErrAlreadyPublished", err)
	}
}

func TestScheduleUnknownPost(t *testing.T) {
	env := newTestEnv()

	_, err := env.engine.Schedule(context.Background(), 42, testNow.Add(time.Hour))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRescheduleCancelsPreviousJob(t *testing.T) {
	env := newTestEnv(draftPost(1))
	ctx := context.Background()

	first, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	second, err := env.engine.Schedule(ctx, 1, testNow.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}

	if len(env.sched.cancelled) != 1 || env.sched.cancelled[0] != first {
		t.Errorf("cancelled = %v, want [%s]", env.sched.cancelled, first)
	}
	if env.posts.posts[1].JobID != second {
		t.Errorf("job id = %q, want %q", env.posts.posts[1].JobID, second)
	}
}

func TestRescheduleAfterFailureResetsRetryCount(t *testing.T) {
	post := draftPost(1)
	post.Status = models.PostStatusFailed
	post.RetryCount = 2
	post.JobID = "job-old"
	env := newTestEnv(post)

	if _, err := env.engine.Schedule(context.Background(), 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got := env.posts.posts[1].RetryCount; got != 0 {
		t.Errorf("retry count = %d, want 0", got)
	}
}

func TestCancelReturnsPostToDraft(t *testing.T) {
	env := newTestEnv(draftPost(1))
	ctx := context.Background()

	jobID, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if err := env.engine.Cancel(ctx, 1); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	post := env.posts.posts[1]
	if post.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", post.Status)
	}
	if post.JobID != "" || post.ScheduledFor.Valid {
		t.Errorf("schedule not cleared: job=%q scheduled_for=%v", post.JobID, post.ScheduledFor)
	}
	if len(env.sched.cancelled) != 1 || env.sched.cancelled[0] != jobID {
		t.Errorf("cancelled = %v, want [%s]", env.sched.cancelled, jobID)
	}

	// second cancel has nothing to withdraw
	if err := env.engine.Cancel(ctx, 1); !errors.Is(err, ErrNoActiveJob) {
		t.Fatalf("second Cancel err = %v, want ErrNoActiveJob", err)
	}
}

func TestExecutePublishSuccess(t *testing.T) {
	env := newTestEnv(draftPost(1))
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("ExecutePublish: %v", err)
	}

	post := env.posts.posts[1]
	if post.Status != models.PostStatusPublished {
		t.Fatalf("status = %q, want published", post.Status)
	}
	if post.TweetID == "" {
		t.Error("tweet id not recorded")
	}
	if post.JobID != "" {
		t.Errorf("job id = %q, want cleared", post.JobID)
	}
	if len(env.tries.attempts) != 1 || env.tries.attempts[0].Attempt != 1 || env.tries.attempts[0].ErrorMessage != "" {
		t.Errorf("attempts = %+v, want one clean attempt", env.tries.attempts)
	}
	if len(env.notes.created) != 1 || env.notes.created[0].Kind != models.NotificationPostPublished {
		t.Errorf("notifications = %+v, want one post_published", env.notes.created)
	}
}

func TestExecutePublishDoubleFire(t *testing.T) {
	env := newTestEnv(draftPost(1))
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("first ExecutePublish: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("second ExecutePublish: %v", err)
	}

	if env.pub.calls != 1 {
		t.Errorf("publisher called %d times, want 1", env.pub.calls)
	}
}

func TestExecutePublishRetriesWithBackoff(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.pub.failures = 4
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	wantDelays := []time.Duration{5 * time.Minute, 15 * time.Minute, 45 * time.Minute}
	for i, want := range wantDelays {
		if err := env.engine.ExecutePublish(ctx, 1); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		post := env.posts.posts[1]
		if post.Status != models.PostStatusFailed {
			t.Fatalf("attempt %d: status = %q, want failed", i+1, post.Status)
		}
		if post.RetryCount != i+1 {
			t.Errorf("attempt %d: retry count = %d, want %d", i+1, post.RetryCount, i+1)
		}
		if post.JobID == "" {
			t.Fatalf("attempt %d: no retry job registered", i+1)
		}
		retry := env.sched.enqueued[len(env.sched.enqueued)-1]
		if got := retry.at.Sub(testNow); got != want {
			t.Errorf("attempt %d: retry delay = %v, want %v", i+1, got, want)
		}
	}

	// fourth failure settles the post for good
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("final attempt: %v", err)
	}
	post := env.posts.posts[1]
	if post.Status != models.PostStatusFailed {
		t.Fatalf("status = %q, want failed", post.Status)
	}
	if post.JobID != "" || post.NextRetryAt.Valid {
		t.Errorf("terminal failure should clear job: job=%q next=%v", post.JobID, post.NextRetryAt)
	}
	if post.RetryCount != maxPublishRetries {
		t.Errorf("retry count = %d, want %d", post.RetryCount, maxPublishRetries)
	}
	if len(env.tries.attempts) != 4 {
		t.Errorf("recorded %d attempts, want 4", len(env.tries.attempts))
	}
	if len(env.notes.created) != 1 || env.notes.created[0].Kind != models.NotificationPublishFailed {
		t.Errorf("notifications = %+v, want one publish_failed", env.notes.created)
	}

	// a stale duplicate of the last job cannot fire a terminal post
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("stale fire: %v", err)
	}
	if env.pub.calls != 4 {
		t.Errorf("publisher called %d times, want 4", env.pub.calls)
	}
}

func TestFailedPostCarriesNoSchedule(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.pub.failures = 10
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// retry pending: the schedule moved to next_retry_at
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	post := env.posts.posts[1]
	if post.Status != models.PostStatusFailed {
		t.Fatalf("status = %q, want failed", post.Status)
	}
	if post.ScheduledFor.Valid {
		t.Errorf("failed post still carries scheduled_for = %v", post.ScheduledFor.Time)
	}
	if !post.NextRetryAt.Valid {
		t.Error("retry-pending post should carry next_retry_at")
	}

	// terminal: no schedule, no retry either
	for i := 0; i < maxPublishRetries; i++ {
		if err := env.engine.ExecutePublish(ctx, 1); err != nil {
			t.Fatalf("attempt %d: %v", i+2, err)
		}
	}
	post = env.posts.posts[1]
	if post.ScheduledFor.Valid || post.NextRetryAt.Valid {
		t.Errorf("terminally failed post: scheduled_for=%v next_retry_at=%v, want both empty",
			post.ScheduledFor, post.NextRetryAt)
	}
}

func TestExecutePublishRecoversOnRetry(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.pub.failures = 1
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("retry: %v", err)
	}

	post := env.posts.posts[1]
	if post.Status != models.PostStatusPublished {
		t.Fatalf("status = %q, want published", post.Status)
	}
	if len(env.tries.attempts) != 2 {
		t.Errorf("recorded %d attempts, want 2", len(env.tries.attempts))
	}
	if env.tries.attempts[1].Attempt != 2 || env.tries.attempts[1].ErrorMessage != "" {
		t.Errorf("second attempt = %+v, want clean attempt 2", env.tries.attempts[1])
	}
}

func TestExecutePublishEnqueueFailureSettlesTerminally(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.pub.failures = 10
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	env.sched.enqueueErr = errors.New("redis: connection refused")

	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("ExecutePublish: %v", err)
	}
	post := env.posts.posts[1]
	if post.Status != models.PostStatusFailed || post.JobID != "" {
		t.Errorf("post = status %q job %q, want terminal failed", post.Status, post.JobID)
	}
}

func TestExecutePublishNoIntegration(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.ints.general = map[int64]*models.TwitterIntegration{}
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("ExecutePublish: %v", err)
	}

	post := env.posts.posts[1]
	if post.Status != models.PostStatusFailed {
		t.Fatalf("status = %q, want failed", post.Status)
	}
	if len(env.tries.attempts) != 1 || env.tries.attempts[0].ErrorMessage != ErrNoIntegration.Error() {
		t.Errorf("attempts = %+v, want one recording the missing integration", env.tries.attempts)
	}
}

func TestPublishUsesCampaignScopedIntegration(t *testing.T) {
	env := newTestEnv(draftPost(1))
	env.ints.byCampaign[100] = &models.TwitterIntegration{
		ID:       20,
		UserID:   1,
		Username: "campaign",
		Status:   models.IntegrationStatusActive,
	}
	ctx := context.Background()

	if _, err := env.engine.Schedule(ctx, 1, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := env.engine.ExecutePublish(ctx, 1); err != nil {
		t.Fatalf("ExecutePublish: %v", err)
	}
	if len(env.pub.accounts) != 1 || env.pub.accounts[0].Username != "campaign" {
		t.Errorf("published with %+v, want the campaign-scoped account", env.pub.accounts)
	}
}

func TestPublishNow(t *testing.T) {
	env := newTestEnv(draftPost(1))

	if err := env.engine.PublishNow(context.Background(), 1); err != nil {
		t.Fatalf("PublishNow: %v", err)
	}
	post := env.posts.posts[1]
	if post.Status != models.PostStatusPublished {
		t.Fatalf("status = %q, want published", post.Status)
	}
	if env.pub.calls != 1 {
		t.Errorf("publisher called %d times, want 1", env.pub.calls)
	}
}

func TestSweepPublishesOverduePosts(t *testing.T) {
	overdue := draftPost(1)
	overdue.Status = models.PostStatusScheduled
	overdue.ScheduledFor = sql.NullTime{Time: testNow.Add(-30 * time.Minute), Valid: true}
	overdue.JobID = "job-lost"

	future := draftPost(2)
	future.Status = models.PostStatusScheduled
	future.ScheduledFor = sql.NullTime{Time: testNow.Add(time.Hour), Valid: true}
	future.JobID = "job-live"

	env := newTestEnv(overdue, future)
	ctx := context.Background()

	if err := env.engine.SweepDuePosts(ctx); err != nil {
		t.Fatalf("SweepDuePosts: %v", err)
	}

	if got := env.posts.posts[1].Status; got != models.PostStatusPublished {
		t.Errorf("overdue post status = %q, want published", got)
	}
	if got := env.posts.posts[2].Status; got != models.PostStatusScheduled {
		t.Errorf("future post status = %q, want untouched scheduled", got)
	}

	// a second sweep finds nothing left to do
	if err := env.engine.SweepDuePosts(ctx); err != nil {
		t.Fatalf("second SweepDuePosts: %v", err)
	}
	if env.pub.calls != 1 {
		t.Errorf("publisher called %d times, want 1", env.pub.calls)
	}
}
