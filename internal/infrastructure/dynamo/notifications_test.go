package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

func newRepos(f *fakeDynamo, opts ...Option) (*NotificationRepo, *UserRepo) {
	users := NewUserRepo(f, "users")
	return NewNotificationRepo(f, "notifications", users, opts...), users
}

func TestNotificationRepo_InsertAndList(t *testing.T) {
	f := newFakeDynamo()
	repo, users := newRepos(f, WithClock(stepClock(t0, time.Second)))
	ctx := context.Background()
	require.NoError(t, users.Put(ctx, &domain.User{ID: "u-known", FullName: "Karim Ahmed"}))

	in := &domain.Notification{TreeID: "t", SenderID: "u-known", EventType: "photo_uploaded", Message: "hi"}
	require.NoError(t, repo.Insert(ctx, in))
	require.NoError(t, repo.Insert(ctx, &domain.Notification{TreeID: "t", SenderID: "u-ghost", EventType: "e"}))

	views, err := repo.ListByTree(ctx, "t", domain.NotificationListLimit)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "u-ghost", views[0].SenderID)
	assert.Empty(t, views[0].SenderName)
	assert.Equal(t, *in, views[1].Notification)
	assert.Equal(t, "Karim Ahmed", views[1].SenderName)
}

func TestNotificationRepo_ListByTree_NewestTwenty(t *testing.T) {
	f := newFakeDynamo()
	repo, _ := newRepos(f, WithClock(stepClock(t0, time.Second)))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.Notification{TreeID: "big", SenderID: "u", EventType: "e", Message: fmt.Sprintf("m%02d", i)}))
	}
	require.NoError(t, repo.Insert(ctx, &domain.Notification{TreeID: "other", SenderID: "u", EventType: "e"}))

	views, err := repo.ListByTree(ctx, "big", domain.NotificationListLimit)
	require.NoError(t, err)
	require.Len(t, views, 20)
	assert.Equal(t, "m24", views[0].Message)
	assert.Equal(t, "m05", views[19].Message)
}

func TestNotificationRepo_ListByTree_TiesByIDDescending(t *testing.T) {
	f := newFakeDynamo()
	repo, _ := newRepos(f, WithClock(func() time.Time { return t0 }))
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.Notification{TreeID: "tie", SenderID: "u", EventType: "e"}))
	}

	views, err := repo.ListByTree(ctx, "tie", domain.NotificationListLimit)
	require.NoError(t, err)
	require.Len(t, views, 4)
	for i := 1; i < len(views); i++ {
		assert.Greater(t, views[i-1].ID, views[i].ID)
	}
}

func TestNotificationRepo_ListByTree_EmptyIsNotNil(t *testing.T) {
	repo, _ := newRepos(newFakeDynamo())

	views, err := repo.ListByTree(context.Background(), "none", domain.NotificationListLimit)

	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestNotificationRepo_ListByTree_QueryError(t *testing.T) {
	f := newFakeDynamo()
	f.queryErr = errors.New("throttled")
	repo, _ := newRepos(f)

	_, err := repo.ListByTree(context.Background(), "t", domain.NotificationListLimit)

	assert.ErrorContains(t, err, "throttled")
}

func TestUserRepo_FullNames_RetriesUnprocessedKeys(t *testing.T) {
	f := newFakeDynamo()
	users, pauses := withRecordedSleep(NewUserRepo(f, "users"))
	ctx := context.Background()
	require.NoError(t, users.Put(ctx, &domain.User{ID: "a", FullName: "Amina"}))
	f.unprocessRounds = 1

	names, err := users.FullNames(ctx, []string{"a", "a", "missing"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "Amina"}, names)
	assert.Equal(t, 2, f.batchCalls)
	assert.Equal(t, []time.Duration{unprocessedBackoff}, *pauses)
}

func TestUserRepo_FullNames_BacksOffThenGivesUp(t *testing.T) {
	f := newFakeDynamo()
	users, pauses := withRecordedSleep(NewUserRepo(f, "users"))
	f.unprocessRounds = maxUnprocessedRounds

	_, err := users.FullNames(context.Background(), []string{"a"})

	assert.ErrorContains(t, err, "unprocessed")
	assert.Equal(t, maxUnprocessedRounds, f.batchCalls)
	assert.Equal(t, []time.Duration{unprocessedBackoff, 2 * unprocessedBackoff}, *pauses)
}

func TestUserRepo_FullNames_BackoffHonoursCancel(t *testing.T) {
	f := newFakeDynamo()
	users := NewUserRepo(f, "users")
	f.unprocessRounds = 1
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := users.FullNames(ctx, []string{"a"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.batchCalls)
}

func withRecordedSleep(r *UserRepo) (*UserRepo, *[]time.Duration) {
	var pauses []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}
	return r, &pauses
}

func TestUserRepo_FullNames_ChunksLargeRequests(t *testing.T) {
	f := newFakeDynamo()
	users := NewUserRepo(f, "users")
	ids := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		ids = append(ids, fmt.Sprintf("u%03d", i))
	}

	names, err := users.FullNames(context.Background(), ids)

	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, 3, f.batchCalls)
}

func TestUserRepo_FullNames_NoIDsSkipsRequest(t *testing.T) {
	f := newFakeDynamo()

	names, err := NewUserRepo(f, "users").FullNames(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Zero(t, f.batchCalls)
}
