// Package hints is the client side of ancestor-hint matching: a widget state
// machine that fetches candidates for the individual in view, tracks whether
// the user has seen them, and hands navigation back to its parent.
package hints

import (
	"context"
	"errors"
	"sync"

	"github.com/shijra-api/internal/domain"
	"go.uber.org/zap"
)

// State is the data state of the widget.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

const (
	// DefaultIndividualID is used when no individual is in view.
	DefaultIndividualID = "1"

	LoadingCopy = "Scanning Archives..."
	EmptyCopy   = "No new matches found for this tree."
)

// Fetcher loads match candidates. Implementations must honour ctx cancellation.
type Fetcher interface {
	FetchHints(ctx context.Context, treeID, individualID string) ([]domain.Hint, error)
}

// NavigationKind tells the parent which action the user took.
type NavigationKind int

const (
	NavReviewMatch NavigationKind = iota + 1
	NavViewAll
)

// Navigation is passed to the parent-supplied handler.
type Navigation struct {
	Kind   NavigationKind
	HintID string
}

// HintView is a hint with its presentation tier resolved.
type HintView struct {
	domain.Hint
	Tier      Tier
	Glyph     string
	ColorBand string
}

// Snapshot is a consistent read of the widget for rendering.
type Snapshot struct {
	State        State
	Open         bool
	Seen         bool
	BadgeCount   int
	TreeID       string
	IndividualID string
	Hints        []HintView
	// Copy is the placeholder text for non-populated states.
	Copy string
}

// Option configures a Widget.
type Option func(*Widget)

func WithLogger(log *zap.Logger) Option {
	return func(w *Widget) { w.log = log }
}

// WithNavigator sets the parent navigation handler.
func WithNavigator(fn func(Navigation)) Option {
	return func(w *Widget) { w.navigate = fn }
}

// Widget is safe for concurrent use.
type Widget struct {
	fetcher  Fetcher
	log      *zap.Logger
	navigate func(Navigation)

	mu           sync.Mutex
	state        State
	hints        []domain.Hint
	open         bool
	seen         bool
	treeID       string
	individualID string
	gen          uint64
	cancel       context.CancelFunc
	settled      chan struct{}
}

func New(fetcher Fetcher, opts ...Option) *Widget {
	w := &Widget{fetcher: fetcher, log: zap.NewNop(), seen: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetContext points the widget at a tree and individual. Any in-flight fetch
// is cancelled and its result discarded; exactly one new fetch is started.
func (w *Widget) SetContext(ctx context.Context, treeID, individualID string) {
	if individualID == "" {
		individualID = DefaultIndividualID
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.gen++
	gen := w.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	settled := make(chan struct{})
	w.cancel = cancel
	w.settled = settled
	w.state = StateLoading
	w.hints = nil
	w.treeID = treeID
	w.individualID = individualID
	w.mu.Unlock()

	go w.fetch(fetchCtx, cancel, gen, settled, treeID, individualID)
}

func (w *Widget) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, settled chan struct{}, treeID, individualID string) {
	defer close(settled)
	defer cancel()

	hints, err := w.fetcher.FetchHints(ctx, treeID, individualID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return
	}
	w.cancel = nil
	switch {
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			w.log.Warn("fetch hints failed",
				zap.String("tree_id", treeID),
				zap.String("individual_id", individualID),
				zap.Error(err))
		}
		w.state = StateErrored
		w.hints = nil
	case len(hints) == 0:
		w.state = StateEmpty
		w.hints = nil
	default:
		w.state = StatePopulated
		w.hints = hints
		w.seen = false
	}
}

// Wait blocks until the most recent fetch has settled or ctx is done.
func (w *Widget) Wait(ctx context.Context) error {
	w.mu.Lock()
	settled := w.settled
	w.mu.Unlock()
	if settled == nil {
		return nil
	}
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels any in-flight fetch and waits for it to return.
func (w *Widget) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	settled := w.settled
	w.mu.Unlock()
	if settled != nil {
		<-settled
	}
}

// Toggle flips the panel. Opening marks the current hints as seen.
func (w *Widget) Toggle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setOpen(!w.open)
}

func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setOpen(true)
}

func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setOpen(false)
}

func (w *Widget) setOpen(open bool) {
	w.open = open
	if open {
		w.seen = true
	}
}

// BadgeCount is the number of hints while they are unseen, otherwise 0.
func (w *Widget) BadgeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.badgeCount()
}

func (w *Widget) badgeCount() int {
	if w.seen || w.state != StatePopulated {
		return 0
	}
	return len(w.hints)
}

func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		State:        w.state,
		Open:         w.open,
		Seen:         w.seen,
		BadgeCount:   w.badgeCount(),
		TreeID:       w.treeID,
		IndividualID: w.individualID,
	}
	switch w.state {
	case StateLoading:
		s.Copy = LoadingCopy
	case StateEmpty, StateErrored:
		s.Copy = EmptyCopy
	case StatePopulated:
		s.Hints = make([]HintView, 0, len(w.hints))
		for _, h := range w.hints {
			tier := TierOf(h.ConfidenceLevel)
			s.Hints = append(s.Hints, HintView{Hint: h, Tier: tier, Glyph: tier.Glyph(), ColorBand: tier.ColorBand()})
		}
	}
	return s
}

// ReviewMatch hands the chosen hint to the parent and closes the panel.
func (w *Widget) ReviewMatch(hintID string) {
	w.Close()
	w.emit(Navigation{Kind: NavReviewMatch, HintID: hintID})
}

// ViewAll asks the parent to show every hint and closes the panel.
func (w *Widget) ViewAll() {
	w.Close()
	w.emit(Navigation{Kind: NavViewAll})
}

func (w *Widget) emit(n Navigation) {
	if w.navigate != nil {
		w.navigate(n)
	}
}
