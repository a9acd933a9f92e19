package http

import (
	"context"

	"github.com/shijra-api/internal/domain"
	jwtinfra "github.com/shijra-api/internal/infrastructure/jwt"
	s3infra "github.com/shijra-api/internal/infrastructure/s3"
	"go.uber.org/zap"
)

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByTree(ctx context.Context, treeID string, limit int) ([]domain.NotificationView, error)
}

// HintRepository is the minimal interface the router requires from a hint store.
type HintRepository interface {
	ListForIndividual(ctx context.Context, treeID, individualID string, limit int) ([]domain.Hint, error)
}

// DNAUploadRepository records uploaded DNA files.
type DNAUploadRepository interface {
	Put(ctx context.Context, u *domain.DNAUpload) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, obj s3infra.Object) (string, error)
	Delete(ctx context.Context, key string) error
	Encryption() string
}

// BroadcastPublisher fans stored events out to subscribers.
type BroadcastPublisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// Storyteller generates a story from a seed thought.
type Storyteller interface {
	Generate(ctx context.Context, seed string) (*domain.Story, error)
}

// TokenVerifier validates bearer tokens for protected routes.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// Deps holds all infrastructure dependencies for the router. Only
// NotificationRepo is required; routes whose dependencies are nil are not mounted.
type Deps struct {
	NotificationRepo NotificationRepository
	HintRepo         HintRepository
	DNAUploadRepo    DNAUploadRepository
	Objects          ObjectStore
	Publisher        BroadcastPublisher
	Storyteller      Storyteller
	JWTProvider      TokenVerifier
	Logger           *zap.Logger
}
