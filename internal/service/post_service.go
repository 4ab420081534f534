package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/transfer"
	"github.com/campaignflow/campaign-api/internal/workflow"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (int64, error)
	List(ctx context.Context, campaignID, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Update(ctx context.Context, userID int64, pu *transfer.PostUpdate) error
	Schedule(ctx context.Context, userID, postID int64, when time.Time) (string, error)
	CancelSchedule(ctx context.Context, userID, postID int64) error
	PublishNow(ctx context.Context, userID, postID int64) error
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	pr     repository.PostRepository
	cr     repository.CampaignRepository
	mr     repository.MembershipRepository
	sr     repository.SubscriptionRepository
	engine *workflow.Engine
	r2     R2Service
}

func NewPostService(
	pr repository.PostRepository,
	cr repository.CampaignRepository,
	mr repository.MembershipRepository,
	sr repository.SubscriptionRepository,
	engine *workflow.Engine,
	r2 R2Service) PostService {
	return &postService{
		pr:     pr,
		cr:     cr,
		mr:     mr,
		sr:     sr,
		engine: engine,
		r2:     r2,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (int64, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}

	_, isMember, err := s.mr.GetRole(ctx, pc.CampaignID, userID)
	if err != nil {
		return 0, err
	}
	if !isMember {
		return 0, ErrUnauthorized
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.uploadImage(ctx, image)
		if err != nil {
			return 0, fmt.Errorf("error uploading image: %w", err)
		}
	}

	post := models.Post{
		CampaignID: pc.CampaignID,
		AuthorID:   userID,
		Title:      pc.Title,
		Body:       pc.Body,
		ImageURL:   imageURL,
		Status:     models.PostStatusDraft,
	}

	postID, err := s.pr.Create(ctx, nil, &post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return postID, nil
}

func (s *postService) uploadImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	allowedTypes := map[string]struct{}{
		"jpeg": {}, "png": {}, "jpg": {}, "gif": {},
	}

	fileContent, err := image.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", fmt.Errorf("unsupported file type: %w", err)
	}
	if _, ok := allowedTypes[fileType.Extension]; !ok {
		return "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	if err := s.r2.UploadToR2(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return "", err
	}

	return s.r2.PublicURL(key), nil
}

func (s *postService) List(ctx context.Context, campaignID, userID int64) ([]*models.Post, error) {
	campaign, isExist, err := s.cr.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	allowed, err := canReadCampaign(ctx, s.mr, campaign, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	return s.pr.ListByCampaign(ctx, campaignID)
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	campaign, isExist, err := s.cr.GetByID(ctx, post.CampaignID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, ErrNotFound
	}

	allowed, err := canReadCampaign(ctx, s.mr, campaign, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, userID int64, pu *transfer.PostUpdate) error {
	post, isExist, err := s.pr.GetByID(ctx, pu.ID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canEditPost(ctx, s.mr, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	post.Title = pu.Title
	post.Body = pu.Body

	return s.pr.Update(ctx, post)
}

func (s *postService) Schedule(ctx context.Context, userID, postID int64, when time.Time) (string, error) {
	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if !isExist {
		return "", ErrNotFound
	}

	allowed, err := canEditPost(ctx, s.mr, post, userID)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrUnauthorized
	}

	subscribed, err := hasActiveSubscription(ctx, s.sr, userID)
	if err != nil {
		return "", err
	}
	if !subscribed {
		return "", ErrSubscriptionRequired
	}

	return s.engine.Schedule(ctx, postID, when)
}

func (s *postService) CancelSchedule(ctx context.Context, userID, postID int64) error {
	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canEditPost(ctx, s.mr, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	return s.engine.Cancel(ctx, postID)
}

func (s *postService) PublishNow(ctx context.Context, userID, postID int64) error {
	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canEditPost(ctx, s.mr, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	subscribed, err := hasActiveSubscription(ctx, s.sr, userID)
	if err != nil {
		return err
	}
	if !subscribed {
		return ErrSubscriptionRequired
	}

	return s.engine.PublishNow(ctx, postID)
}

// Remove deletes the post and withdraws any pending publish job first so no
// orphaned job fires against a missing row.
func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	post, isExist, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !isExist {
		return ErrNotFound
	}

	allowed, err := canEditPost(ctx, s.mr, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	if err := s.engine.Cancel(ctx, postID); err != nil && !errors.Is(err, workflow.ErrNoActiveJob) {
		return err
	}

	return s.pr.Remove(ctx, postID)
}
