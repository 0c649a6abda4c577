// FILE: internal/service/user_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/specification"
	"krackenx-chat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const identityCacheTTL = 5 * time.Minute

type IUserService interface {
	// ResolveToken validates a JWT and returns the user it belongs to.
	ResolveToken(ctx context.Context, token string) (*entity.User, error)

	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	GetProfile(ctx context.Context, userId uint) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userId uint, file *multipart.FileHeader) (string, error)
	UpdateLastSeen(ctx context.Context, userId uint) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	redis      *redis.Client // nil disables identity caching
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client) IUserService {
	return &userService{
		uowFactory: uowFactory,
		redis:      redisClient,
	}
}

// cachedIdentity is the slim user projection kept in Redis so repeat socket
// authentications skip the database.
type cachedIdentity struct {
	Id       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func identityCacheKey(userId uint) string {
	return fmt.Sprintf("chat:identity:%d", userId)
}

func (s *userService) ResolveToken(ctx context.Context, tokenString string) (*entity.User, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	rawId, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userId := uint(rawId)

	// Cache hit: skip the database entirely.
	if s.redis != nil {
		if raw, cacheErr := s.redis.Get(ctx, identityCacheKey(userId)).Result(); cacheErr == nil {
			var cached cachedIdentity
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &entity.User{Id: cached.Id, Username: cached.Username, Email: cached.Email}, nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if s.redis != nil {
		raw, _ := json.Marshal(cachedIdentity{Id: user.Id, Username: user.Username, Email: user.Email})
		// Best effort; auth still works when Redis is down.
		s.redis.Set(ctx, identityCacheKey(user.Id), raw, identityCacheTTL)
	}

	return user, nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
}

func (s *userService) GetProfile(ctx context.Context, userId uint) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return &dto.UserResponse{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: avatarURL,
	}, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userId uint, file *multipart.FileHeader) (string, error) {
	// 1. Validate File Size (Max 2MB)
	if file.Size > 2*1024*1024 {
		return "", fmt.Errorf("file too large (max 2MB)")
	}

	// 2. Open File
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 3. Create Upload Directory
	uploadDir := "./uploads/avatars"
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	// 4. Generate Unique Filename
	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%d_%d%s", userId, time.Now().Unix(), ext)
	dstPath := filepath.Join(uploadDir, filename)

	// 5. Save File
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}

	// 6. Generate Public URL
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	publicURL := fmt.Sprintf("%s/uploads/avatars/%s", baseURL, filename)

	// 7. Update User Profile in DB
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().UpdateAvatar(ctx, userId, publicURL); err != nil {
		return "", err
	}

	// Drop the stale cached identity, if any.
	if s.redis != nil {
		s.redis.Del(ctx, identityCacheKey(userId))
	}

	return publicURL, nil
}

func (s *userService) UpdateLastSeen(ctx context.Context, userId uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().UpdateLastSeen(ctx, userId)
}
