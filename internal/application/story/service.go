package story

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/validate"
)

type Service interface {
	Generate(ctx context.Context, req domain.StoryRequest) (*domain.Story, error)
}

type storyteller interface {
	Generate(ctx context.Context, seed string) (*domain.Story, error)
}

type service struct {
	teller storyteller
}

// NewService wraps teller. A nil teller makes every request an upstream failure.
func NewService(teller storyteller) Service {
	return &service{teller: teller}
}

func (s *service) Generate(ctx context.Context, req domain.StoryRequest) (*domain.Story, error) {
	req.Seed = strings.TrimSpace(req.Seed)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if s.teller == nil {
		return nil, fmt.Errorf("story generation not configured: %w", domain.ErrUpstream)
	}
	story, err := s.teller.Generate(ctx, req.Seed)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("generate story: %w: %w", domain.ErrUpstream, err)
	}
	return story, nil
}
