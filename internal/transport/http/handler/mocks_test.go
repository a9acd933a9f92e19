package handler

import (
	"context"

	"github.com/shijra-api/internal/application/dna"
	"github.com/shijra-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Broadcast(ctx context.Context, req domain.BroadcastRequest) (*domain.Notification, error) {
	args := m.Called(ctx, req)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationSvc) ListByTree(ctx context.Context, treeID string) ([]domain.NotificationView, error) {
	args := m.Called(ctx, treeID)
	v, _ := args.Get(0).([]domain.NotificationView)
	return v, args.Error(1)
}

type mockHintSvc struct{ mock.Mock }

func (m *mockHintSvc) ListForIndividual(ctx context.Context, treeID, individualID string) ([]domain.Hint, error) {
	args := m.Called(ctx, treeID, individualID)
	h, _ := args.Get(0).([]domain.Hint)
	return h, args.Error(1)
}

type mockStorySvc struct{ mock.Mock }

func (m *mockStorySvc) Generate(ctx context.Context, req domain.StoryRequest) (*domain.Story, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.Story)
	return s, args.Error(1)
}

type mockDNASvc struct{ mock.Mock }

func (m *mockDNASvc) Upload(ctx context.Context, in dna.UploadInput) (*domain.DNAUpload, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*domain.DNAUpload)
	return u, args.Error(1)
}
