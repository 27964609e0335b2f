// Package draw implements the random selection engine and its exactly-once
// bookkeeping: one history entry (cards) and one counter increment per
// user-initiated draw, plus a detached best-effort notification.
package draw

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// ErrEmptyCollection is returned when no candidate matches the filter.
// The draw performs no side effects in that case.
var ErrEmptyCollection = errors.New("no items to draw from")

// CandidateSource lists candidates and owns the counter write path.
type CandidateSource interface {
	ListCandidates(ctx context.Context, kind models.Kind, f models.ItemFilter) ([]models.Item, error)
	IncrementEngagement(ctx context.Context, id string) error
}

// Ledger appends to the scratch history.
type Ledger interface {
	Append(ctx context.Context, itemID string, at time.Time) error
}

// Dispatcher pushes a best-effort notification. Implementations never
// return errors; failures stay inside the dispatch leg.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind models.Kind, item models.Item)
}

// Engine orchestrates draws. It is the only writer of engagement counters
// and history entries.
type Engine struct {
	items  CandidateSource
	ledger Ledger
	relay  Dispatcher
	log    zerolog.Logger

	// intN is swappable for deterministic tests.
	intN func(n int) int

	// sem caps in-flight dispatch goroutines. When the cap is reached new
	// dispatches are dropped rather than blocking the draw path.
	sem             chan struct{}
	dispatchTimeout time.Duration
}

// NewEngine creates a draw engine. maxInFlight bounds concurrent
// notification dispatches.
func NewEngine(items CandidateSource, ledger Ledger, relay Dispatcher, maxInFlight int, log zerolog.Logger) *Engine {
	if maxInFlight <= 0 {
		maxInFlight = 8
	}

	return &Engine{
		items:           items,
		ledger:          ledger,
		relay:           relay,
		log:             log.With().Str("component", "draw").Logger(),
		intN:            rand.IntN,
		sem:             make(chan struct{}, maxInFlight),
		dispatchTimeout: 30 * time.Second,
	}
}

// Draw selects one item uniformly at random from the filtered candidate set
// of the given kind, records the draw, and schedules a notification.
//
// Every eligible item has equal probability regardless of its engagement
// count. On success exactly one history entry (cards only) and exactly one
// counter increment happen; any client-side spin animation replays the
// settled result and must not call Draw again. A primary-write failure
// aborts the draw; the notification leg can never fail the draw.
func (e *Engine) Draw(ctx context.Context, kind models.Kind, f models.ItemFilter) (*models.Item, error) {
	candidates, err := e.items.ListCandidates(ctx, kind, f)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCollection
	}

	picked := candidates[e.intN(len(candidates))]

	if kind.Tracked() {
		if err := e.ledger.Append(ctx, picked.ID, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("recording draw: %w", err)
		}
	}

	if err := e.items.IncrementEngagement(ctx, picked.ID); err != nil {
		return nil, fmt.Errorf("recording draw: %w", err)
	}
	picked.EngagementCount++

	e.scheduleDispatch(kind, picked)

	return &picked, nil
}

// scheduleDispatch runs the relay in a detached goroutine with its own
// timeout, decoupled from the request context. The caller never waits on it.
func (e *Engine) scheduleDispatch(kind models.Kind, item models.Item) {
	select {
	case e.sem <- struct{}{}:
	default:
		e.log.Warn().Str("kind", string(kind)).Msg("dispatch capacity reached, dropping notification")
		return
	}

	go func() {
		defer func() { <-e.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), e.dispatchTimeout)
		defer cancel()

		e.relay.Dispatch(ctx, kind, item)
	}()
}
