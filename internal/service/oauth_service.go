// FILE: internal/service/oauth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/specification"
	"krackenx-chat-be/internal/repository/unitofwork"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type IOAuthService interface {
	GetLoginURL() (string, error)
	HandleCallback(ctx context.Context, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	githubConf *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}
	return &oauthService{
		uowFactory: uowFactory,
		githubConf: conf,
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *oauthService) GetLoginURL() (string, error) {
	if s.githubConf.ClientID == "" {
		return "", errors.New("github oauth is not configured")
	}
	state, err := randomState()
	if err != nil {
		return "", err
	}
	return s.githubConf.AuthCodeURL(state), nil
}

type githubProfile struct {
	Id        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func (s *oauthService) HandleCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.githubConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange failed: %w", err)
	}

	client := s.githubConf.Client(ctx, token)
	profile, err := fetchGithubProfile(client)
	if err != nil {
		return nil, err
	}

	// Profiles with a hidden public email need the emails endpoint.
	if profile.Email == "" {
		profile.Email, _ = fetchGithubPrimaryEmail(client)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	githubId := fmt.Sprintf("%d", profile.Id)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByGithubId{GithubId: githubId})
	if err != nil {
		return nil, err
	}

	if user == nil && profile.Email != "" {
		// Link by email when the account was registered with a password first.
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: profile.Email})
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.GithubId = &githubId
			if user.AvatarURL == nil && profile.AvatarURL != "" {
				user.AvatarURL = &profile.AvatarURL
			}
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	if user == nil {
		username, err := s.availableUsername(ctx, uow, profile.Login)
		if err != nil {
			return nil, err
		}
		user = &entity.User{
			Username:      username,
			Email:         profile.Email,
			GithubId:      &githubId,
			IsOAuthUser:   true,
			EmailVerified: true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if profile.AvatarURL != "" {
			user.AvatarURL = &profile.AvatarURL
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
	}

	signedToken, err := SignAccessToken(user)
	if err != nil {
		return nil, err
	}

	_ = uow.UserRepository().UpdateLastSeen(ctx, user.Id)

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return &dto.LoginResponse{
		Token: signedToken,
		User: dto.UserResponse{
			Id:        user.Id,
			Username:  user.Username,
			Email:     user.Email,
			AvatarURL: avatarURL,
		},
	}, nil
}

// availableUsername suffixes the GitHub login until it is free.
func (s *oauthService) availableUsername(ctx context.Context, uow unitofwork.UnitOfWork, login string) (string, error) {
	candidate := login
	for i := 0; i < 10; i++ {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: candidate})
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", login, i+1)
	}
	return "", errors.New("could not derive an available username")
}

func fetchGithubProfile(client *http.Client) (*githubProfile, error) {
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github user endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var profile githubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func fetchGithubPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}
