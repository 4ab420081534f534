package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/campaignflow/campaign-api/configs"
	"github.com/campaignflow/campaign-api/internal/models"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/transfer"
	"github.com/campaignflow/campaign-api/pkg/utils"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const twitterAPIBase = "https://api.twitter.com"

var twitterEndpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

type TwitterService interface {
	AuthURL(state, verifier string) string
	Callback(ctx context.Context, code, verifier string, userID int64, campaignID sql.NullInt64) error
	List(ctx context.Context, userID int64) ([]*models.TwitterIntegration, error)
	Remove(ctx context.Context, userID, integrationID int64) error
	RefreshTwitterToken(ctx context.Context, acc *models.TwitterIntegration) error
	PublishTweet(ctx context.Context, acc *models.TwitterIntegration, text, imageURL string) (*transfer.PublishedTweet, error)
	TweetMetrics(ctx context.Context, acc *models.TwitterIntegration, tweetID string) (*transfer.TweetMetrics, error)
}

type twitterService struct {
	cfg     config.Config
	ir      repository.IntegrationRepository
	client  *resty.Client
	baseURL string
}

func NewTwitterService(cfg config.Config, ir repository.IntegrationRepository) TwitterService {
	return &twitterService{
		cfg:     cfg,
		ir:      ir,
		client:  resty.New(),
		baseURL: twitterAPIBase,
	}
}

func (s *twitterService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.TwitterClientID,
		ClientSecret: s.cfg.TwitterClientSecret,
		RedirectURL:  s.cfg.TwitterRedirectURI,
		Scopes:       []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		Endpoint:     twitterEndpoint,
	}
}

func (s *twitterService) AuthURL(state, verifier string) string {
	return s.oauthConfig().AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", verifier),
		oauth2.SetAuthURLParam("code_challenge_method", "plain"),
	)
}

func (s *twitterService) Callback(ctx context.Context, code, verifier string, userID int64, campaignID sql.NullInt64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	token, err := s.oauthConfig().Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	userInfo, err := s.twitterUserInfo(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	integration := &models.TwitterIntegration{
		UserID:         userID,
		CampaignID:     campaignID,
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TwitterUserID:  userInfo.ID,
		Username:       userInfo.Username,
		Status:         models.IntegrationStatusActive,
		TokenExpiresAt: token.Expiry,
	}

	_, err = s.ir.Create(ctx, nil, integration)
	if err != nil {
		return err
	}

	return nil
}

func (s *twitterService) twitterUserInfo(ctx context.Context, accessToken string) (*transfer.TwitterUser, error) {
	var result transfer.TwitterUserResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&result).
		Get(s.baseURL + "/2/users/me")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if resp.IsError() {
		err = fmt.Errorf("twitter user lookup failed: %s", resp.Status())
		slog.Info(err.Error())
		return nil, err
	}

	return &result.Data, nil
}

func (s *twitterService) List(ctx context.Context, userID int64) ([]*models.TwitterIntegration, error) {
	return s.ir.ListByUserID(ctx, userID)
}

func (s *twitterService) Remove(ctx context.Context, userID, integrationID int64) error {
	isOwner, err := s.ir.CheckByUserID(ctx, integrationID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrUnauthorized
	}
	return s.ir.Remove(ctx, integrationID)
}

func (s *twitterService) RefreshTwitterToken(ctx context.Context, acc *models.TwitterIntegration) error {
	refreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	tokenSource := s.oauthConfig().TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})

	token, err := tokenSource.Token()
	if err != nil {
		slog.Info(err.Error())
		if updateErr := s.ir.UpdateStatus(ctx, acc.ID, models.IntegrationStatusExpired); updateErr != nil {
			slog.Info(updateErr.Error())
		}
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.ir.UpdateTokens(ctx, acc.ID, encryptedAccessToken, encryptedRefreshToken, token.Expiry)
}

// PublishTweet posts the text (with the image URL appended, when present) to
// the account's timeline.
func (s *twitterService) PublishTweet(ctx context.Context, acc *models.TwitterIntegration, text, imageURL string) (*transfer.PublishedTweet, error) {
	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	if imageURL != "" {
		text = text + "\n" + imageURL
	}

	var result transfer.TweetResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(transfer.TweetRequest{Text: text}).
		SetResult(&result).
		Post(s.baseURL + "/2/tweets")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if resp.IsError() {
		err = fmt.Errorf("tweet creation failed: %s, %s", resp.Status(), resp.String())
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.PublishedTweet{ID: result.Data.ID, Text: result.Data.Text}, nil
}

func (s *twitterService) TweetMetrics(ctx context.Context, acc *models.TwitterIntegration, tweetID string) (*transfer.TweetMetrics, error) {
	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	var result transfer.TweetLookupResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("tweet.fields", "public_metrics").
		SetResult(&result).
		Get(s.baseURL + "/2/tweets/" + tweetID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if resp.IsError() {
		err = fmt.Errorf("tweet lookup failed: %s", resp.Status())
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.TweetMetrics{
		Likes:    result.Data.PublicMetrics.LikeCount,
		Retweets: result.Data.PublicMetrics.RetweetCount,
		Replies:  result.Data.PublicMetrics.ReplyCount,
	}, nil
}
