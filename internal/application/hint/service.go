package hint

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/domain"
)

type Service interface {
	ListForIndividual(ctx context.Context, treeID, individualID string) ([]domain.Hint, error)
}

type hintStore interface {
	ListForIndividual(ctx context.Context, treeID, individualID string, limit int) ([]domain.Hint, error)
}

type service struct {
	repo    hintStore
	timeout time.Duration
}

func NewService(repo hintStore, timeout time.Duration) Service {
	return &service{repo: repo, timeout: timeout}
}

// ListForIndividual returns match candidates, strongest first.
func (s *service) ListForIndividual(ctx context.Context, treeID, individualID string) ([]domain.Hint, error) {
	if treeID == "" {
		return nil, fmt.Errorf("treeId: %w", domain.ErrMissingField)
	}
	if individualID == "" {
		return nil, fmt.Errorf("individualId: %w", domain.ErrMissingField)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	hints, err := s.repo.ListForIndividual(ctx, treeID, individualID, domain.HintListLimit)
	if err != nil {
		return nil, fmt.Errorf("list hints: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return hints, nil
}
