package refresh

import (
	"context"
	"fmt"
	"time"

	"country-cache/feature/countries/normalize"
	"country-cache/feature/countries/sources"
	"country-cache/feature/countries/store"

	"go.uber.org/zap"
)

// State is a step of a refresh run.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching_external"
	StateNormalizing State = "normalizing"
	StatePersisting  State = "persisting"
	StateCommitted   State = "committed"
	StateAborted     State = "aborted"
)

// Publisher renders derived artifacts from the committed table.
type Publisher interface {
	Publish(ctx context.Context, generatedAt time.Time) error
}

// Result describes one refresh run.
type Result struct {
	State      State
	RunAt      time.Time
	Accepted   int
	Rejected   int
	// Total is the row count after commit, zero if it could not be read.
	Total      int64
	Rejections []*normalize.Rejection
}

// Synchronizer runs the fetch, normalize, persist and publish pipeline.
type Synchronizer struct {
	fetcher    sources.Fetcher
	store      *store.Store
	publisher  Publisher
	multiplier normalize.Multiplier
	now        func() time.Time
	logger     *zap.Logger
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithClock replaces the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// WithMultiplier replaces the GDP multiplier source.
func WithMultiplier(m normalize.Multiplier) Option {
	return func(s *Synchronizer) { s.multiplier = m }
}

// NewSynchronizer creates a Synchronizer. A nil publisher skips the publish step.
func NewSynchronizer(fetcher sources.Fetcher, st *store.Store, publisher Publisher, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		fetcher:    fetcher,
		store:      st,
		publisher:  publisher,
		multiplier: normalize.RandomMultiplier,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one refresh. On any error the store is left as it was before
// the call. A publish failure after commit is logged and does not fail the run.
func (s *Synchronizer) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: StateIdle, RunAt: s.now()}
	log := s.logger.With(zap.Time("run_at", res.RunAt))

	s.transition(log, res, StateFetching)
	payload, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.abort(log, res, err)
		return res, err
	}

	s.transition(log, res, StateNormalizing)
	batch := normalize.All(payload, res.RunAt, s.multiplier)
	res.Accepted = len(batch.Rows)
	res.Rejected = len(batch.Rejections)
	res.Rejections = batch.Rejections
	for _, rej := range batch.Rejections {
		log.Warn("Rejected country record", zap.String("name", rej.Name), zap.String("reason", string(rej.Reason)))
	}
	if res.Accepted == 0 {
		s.abort(log, res, ErrNoValidData)
		return res, ErrNoValidData
	}

	s.transition(log, res, StatePersisting)
	if err := s.persist(ctx, batch); err != nil {
		s.abort(log, res, err)
		return res, err
	}

	s.transition(log, res, StateCommitted)
	if total, err := s.store.Count(ctx); err == nil {
		res.Total = total
	}
	log.Info("Refresh committed",
		zap.Int("accepted", res.Accepted),
		zap.Int("rejected", res.Rejected),
		zap.Int64("total", res.Total))

	s.publish(ctx, log, res.RunAt)
	return res, nil
}

func (s *Synchronizer) persist(ctx context.Context, batch normalize.Batch) (err error) {
	tx, bErr := s.store.Begin(ctx)
	if bErr != nil {
		return &PersistenceFailure{Op: "begin", Err: bErr}
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Rollback failed", zap.Error(rbErr))
		}
	}()

	if _, upErr := tx.UpsertBatch(batch.Rows); upErr != nil {
		return &PersistenceFailure{Op: "upsert", Err: upErr}
	}
	if cErr := tx.Commit(); cErr != nil {
		return &PersistenceFailure{Op: "commit", Err: cErr}
	}
	return nil
}

func (s *Synchronizer) publish(ctx context.Context, log *zap.Logger, at time.Time) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, at); err != nil {
		failure := &ArtifactPublishFailure{Err: err}
		log.Error("Summary publish failed", zap.Error(failure))
		return
	}
	log.Debug("Summary published")
}

func (s *Synchronizer) transition(log *zap.Logger, res *Result, next State) {
	log.Debug("Refresh state change",
		zap.String("from", string(res.State)),
		zap.String("to", string(next)))
	res.State = next
}

func (s *Synchronizer) abort(log *zap.Logger, res *Result, cause error) {
	from := res.State
	res.State = StateAborted
	log.Warn("Refresh aborted",
		zap.String("from", string(from)),
		zap.Error(fmt.Errorf("%s: %w", from, cause)))
}
