package contract

import (
	"context"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByIds(ctx context.Context, ids []uint) error

	// Business Specific
	UpdateLastSeen(ctx context.Context, userId uint) error
	MarkEmailVerified(ctx context.Context, userId uint) error
	UpdateAvatar(ctx context.Context, userId uint, avatarURL string) error

	// Verification codes
	CreateVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error)
	DeleteVerificationToken(ctx context.Context, id uuid.UUID) error
	DeleteVerificationTokensForUser(ctx context.Context, userId uint) error
}
