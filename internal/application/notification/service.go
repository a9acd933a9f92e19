package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/validate"
	"go.uber.org/zap"
)

// publishTimeout bounds the best-effort fan-out after a successful insert.
const publishTimeout = 3 * time.Second

type Service interface {
	Broadcast(ctx context.Context, req domain.BroadcastRequest) (*domain.Notification, error)
	ListByTree(ctx context.Context, treeID string) ([]domain.NotificationView, error)
}

type notificationStore interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByTree(ctx context.Context, treeID string, limit int) ([]domain.NotificationView, error)
}

type publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

type ServiceDeps struct {
	Repo      notificationStore
	Publisher publisher // optional
	Timeout   time.Duration
	Logger    *zap.Logger
}

type service struct {
	repo      notificationStore
	publisher publisher
	timeout   time.Duration
	log       *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:      deps.Repo,
		publisher: deps.Publisher,
		timeout:   deps.Timeout,
		log:       log,
	}
}

// Broadcast validates req and appends exactly one event to the store.
func (s *service) Broadcast(ctx context.Context, req domain.BroadcastRequest) (*domain.Notification, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	n := &domain.Notification{
		TreeID:    req.TreeID,
		SenderID:  req.SenderID,
		EventType: req.EventType,
		Message:   req.Message,
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.repo.Insert(storeCtx, n); err != nil {
		return nil, fmt.Errorf("broadcast: %w: %w", domain.ErrStoreUnavailable, err)
	}

	s.publish(ctx, n)
	return n, nil
}

// ListByTree returns the newest events of a tree with sender names filled in.
func (s *service) ListByTree(ctx context.Context, treeID string) ([]domain.NotificationView, error) {
	if treeID == "" {
		return nil, fmt.Errorf("treeId: %w", domain.ErrMissingField)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	views, err := s.repo.ListByTree(storeCtx, treeID, domain.NotificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w: %w", domain.ErrStoreUnavailable, err)
	}
	for i := range views {
		if views[i].SenderName == "" {
			views[i].SenderName = domain.DefaultSenderName
		}
	}
	return views, nil
}

func (s *service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// publish never fails the broadcast: the event is already stored.
func (s *service) publish(ctx context.Context, n *domain.Notification) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, n); err != nil {
		s.log.Warn("broadcast fan-out failed",
			zap.String("notification_id", n.ID),
			zap.String("tree_id", n.TreeID),
			zap.Error(err))
	}
}
