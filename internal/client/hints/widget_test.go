package hints

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubFetcher answers per individual id. Entries in block wait for release
// or cancellation before answering.
type stubFetcher struct {
	mu      sync.Mutex
	results map[string][]domain.Hint
	errs    map[string]error
	block   map[string]chan struct{}
	calls   []string
}

func newStub() *stubFetcher {
	return &stubFetcher{
		results: map[string][]domain.Hint{},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
	}
}

func (s *stubFetcher) FetchHints(ctx context.Context, treeID, individualID string) ([]domain.Hint, error) {
	s.mu.Lock()
	s.calls = append(s.calls, treeID+"/"+individualID)
	gate := s.block[individualID]
	res, err := s.results[individualID], s.errs[individualID]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func waitSettled(t *testing.T, w *Widget) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
}

var twoCandidates = []domain.Hint{
	{ID: "match_101", SuggestedName: "Tariq Mahmood (Late)", SourceTreeName: "Mahmood Lineage", ConfidenceLevel: 98, MatchedOn: []string{"Full Name", "Birth Year (1942)"}},
	{ID: "match_102", SuggestedName: "T. M. Khan", SourceTreeName: "Khan Family Archival", ConfidenceLevel: 85, MatchedOn: []string{"Surname", "Approx. Death Date"}},
}

func TestWidget_BadgeLifecycle(t *testing.T) {
	stub := newStub()
	stub.results["1"] = twoCandidates
	stub.results["2"] = []domain.Hint{{ID: "match_201", ConfidenceLevel: 60}}
	w := New(stub)

	w.SetContext(context.Background(), "ahmed-archive", "1")
	waitSettled(t, w)
	assert.Equal(t, StatePopulated, w.Snapshot().State)
	assert.Equal(t, 2, w.BadgeCount())

	w.Open()
	assert.Equal(t, 0, w.BadgeCount())
	assert.True(t, w.Snapshot().Seen)

	w.SetContext(context.Background(), "ahmed-archive", "2")
	waitSettled(t, w)
	snap := w.Snapshot()
	assert.False(t, snap.Seen)
	assert.Equal(t, 1, snap.BadgeCount)
}

func TestWidget_InitialState(t *testing.T) {
	w := New(newStub())
	snap := w.Snapshot()

	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Open)
	assert.Zero(t, snap.BadgeCount)
	require.NoError(t, w.Wait(context.Background()))
}

func TestWidget_LoadingThenEmpty(t *testing.T) {
	stub := newStub()
	gate := make(chan struct{})
	stub.block["1"] = gate
	w := New(stub)

	w.SetContext(context.Background(), "t", "")
	snap := w.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Equal(t, LoadingCopy, snap.Copy)
	assert.Equal(t, DefaultIndividualID, snap.IndividualID)

	close(gate)
	waitSettled(t, w)
	snap = w.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Equal(t, EmptyCopy, snap.Copy)
	assert.Zero(t, snap.BadgeCount)
}

func TestWidget_ErrorRendersLikeEmpty(t *testing.T) {
	stub := newStub()
	stub.errs["1"] = errors.New("503")
	w := New(stub)

	w.SetContext(context.Background(), "t", "1")
	waitSettled(t, w)

	snap := w.Snapshot()
	assert.Equal(t, StateErrored, snap.State)
	assert.Equal(t, EmptyCopy, snap.Copy)
	assert.Empty(t, snap.Hints)
	assert.Zero(t, snap.BadgeCount)
}

func TestWidget_SupersededFetchNeverLands(t *testing.T) {
	stub := newStub()
	stub.results["old"] = []domain.Hint{{ID: "stale"}}
	stub.block["old"] = make(chan struct{}) // never released; only cancellation frees it
	stub.results["new"] = []domain.Hint{{ID: "fresh", ConfidenceLevel: 91}}
	w := New(stub)

	w.SetContext(context.Background(), "t", "old")
	w.SetContext(context.Background(), "t", "new")
	waitSettled(t, w)
	w.Stop()

	snap := w.Snapshot()
	require.Len(t, snap.Hints, 1)
	assert.Equal(t, "fresh", snap.Hints[0].ID)
	assert.Equal(t, TierHigh, snap.Hints[0].Tier)
	assert.Equal(t, "A+", snap.Hints[0].Glyph)
	assert.Equal(t, "new", snap.IndividualID)
}

func TestWidget_StopCancelsInFlight(t *testing.T) {
	stub := newStub()
	stub.block["1"] = make(chan struct{})
	w := New(stub)

	w.SetContext(context.Background(), "t", "1")
	w.Stop()

	assert.Equal(t, StateErrored, w.Snapshot().State)
}

func TestWidget_ToggleAndNavigation(t *testing.T) {
	var got []Navigation
	w := New(newStub(), WithNavigator(func(n Navigation) { got = append(got, n) }))

	w.Toggle()
	assert.True(t, w.Snapshot().Open)
	w.ReviewMatch("match_101")
	assert.False(t, w.Snapshot().Open)

	w.Toggle()
	w.ViewAll()
	assert.False(t, w.Snapshot().Open)

	assert.Equal(t, []Navigation{
		{Kind: NavReviewMatch, HintID: "match_101"},
		{Kind: NavViewAll},
	}, got)
}

func TestWidget_NavigationWithoutHandler(t *testing.T) {
	w := New(newStub())
	w.Open()
	assert.NotPanics(t, func() { w.ViewAll() })
}

func TestTierOf(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
		glyph string
		band  string
	}{
		{100, TierHigh, "A+", "emerald"},
		{90, TierHigh, "A+", "emerald"},
		{89, TierMedium, "B", "gold"},
		{70, TierMedium, "B", "gold"},
		{69, TierLow, "C", "slate"},
		{0, TierLow, "C", "slate"},
	}
	for _, c := range cases {
		tier := TierOf(c.score)
		assert.Equal(t, c.want, tier, c.score)
		assert.Equal(t, c.glyph, tier.Glyph())
		assert.Equal(t, c.band, tier.ColorBand())
	}
}
