// Package service provides the dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/dataset"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/memo"
	"github.com/okian/podium/internal/domain/merge"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Default service configuration.
const (
	defaultTopCountries  = 10
	defaultMaxRecords    = 1000
	defaultPageSize      = 100
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
	defaultSummaryCache  = 256
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	cache    *dataset.Cache
	sessions repository.Store
	sources  dataset.Sources

	// Configuration
	policy        merge.Policy
	topCountries  int
	maxRecords    int
	sessionTTL    time.Duration
	sweepInterval time.Duration
	summaryCache  int

	// summaries memoizes Summary per table generation and selection.
	summaries *memo.Cache[types.Summary]

	// State: records is replaced as a whole on reload and never mutated.
	records      []model.EnrichedRecord
	info         types.DatasetInfo
	gen          uint64
	started      bool
	ownsSessions bool
	cancel       context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the athlete and region sources.
func WithSources(src dataset.Sources) Option {
	return func(s *Service) {
		s.sources = src
	}
}

// WithCache shares a dataset cache between services.
func WithCache(c *dataset.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithDuplicatePolicy sets how repeated NOC codes are handled.
func WithDuplicatePolicy(p merge.Policy) Option {
	return func(s *Service) {
		if p == merge.KeepFirst || p == merge.Strict {
			s.policy = p
		}
	}
}

// WithTopCountries sets how many countries the top-countries widget shows.
func WithTopCountries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topCountries = n
		}
	}
}

// WithMaxRecords caps the page size of the raw table.
func WithMaxRecords(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRecords = n
		}
	}
}

// WithSessionTTL sets the idle time after which sessions expire.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSweepInterval sets how often expired sessions are evicted.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithSummaryCacheSize bounds the number of memoized summaries. Zero or
// less disables memoization.
func WithSummaryCacheSize(n int) Option {
	return func(s *Service) {
		s.summaryCache = n
	}
}

// WithSessionStore replaces the in-memory session store. The caller keeps
// ownership: Stop does not close it.
func WithSessionStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sources: dataset.Files(
			"data/athlete_performance_1.csv",
			"data/athlete_performance_2.csv",
			"data/noc_regions.csv",
		),
		policy:        merge.KeepFirst,
		topCountries:  defaultTopCountries,
		maxRecords:    defaultMaxRecords,
		sessionTTL:    defaultSessionTTL,
		sweepInterval: defaultSweepInterval,
		summaryCache:  defaultSummaryCache,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}
	s.summaries = memo.New[types.Summary](memo.WithMaxSize(s.summaryCache))

	return s
}

// Start loads and merges the dataset and starts the session store. A load
// failure is fatal: the service stays unstarted and nothing is served.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.cache == nil {
		s.cache = dataset.NewCache(dataset.WithCacheLogger(s.logger))
	}

	s.logger.Info(ctx, "starting dashboard service...",
		logger.String("sources", s.sources.Key()),
	)

	records, info, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.records, s.info = records, info
	s.gen++

	// The sweep loop outlives ctx, which may be a startup deadline.
	bg, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if s.sessions == nil {
		s.sessions = repository.NewMemoryStore(bg,
			repository.WithTTL(s.sessionTTL),
			repository.WithSweepInterval(s.sweepInterval),
		)
		s.ownsSessions = true
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("rows", info.Rows),
		logger.Int("unmatchedRows", info.Unmatched),
		logger.Int("topCountries", s.topCountries),
	)

	return nil
}

// Stop shuts down the session store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	// An injected store belongs to the caller and stays open.
	if s.ownsSessions {
		if closer, ok := s.sessions.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.sessions, s.ownsSessions = nil, false
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// build loads through the cache and merges. Callers hold s.mu.
func (s *Service) build(ctx context.Context) ([]model.EnrichedRecord, types.DatasetInfo, error) {
	start := time.Now()
	tables, err := s.cache.Get(ctx, s.sources)
	if err != nil {
		s.logger.Error(ctx, "dataset load failed", logger.Error(err))
		return nil, types.DatasetInfo{}, err
	}

	res, err := merge.Merge(tables.Athletes, tables.Regions, merge.WithPolicy(s.policy))
	if err != nil {
		s.logger.Error(ctx, "region join refused",
			logger.Error(err),
			logger.Strings("codes", res.Duplicates),
		)
		return nil, types.DatasetInfo{}, fmt.Errorf("merge: %w", err)
	}
	if len(res.Duplicates) > 0 {
		s.logger.Warn(ctx, "region lookup repeats NOC codes, keeping first",
			logger.Strings("codes", res.Duplicates),
		)
	}
	metrics.RecordPipeline("merge", float64(time.Since(start).Milliseconds()))

	return res.Records, types.DatasetInfo{
		Rows:       len(res.Records),
		Duplicates: res.Duplicates,
		Unmatched:  res.Unmatched,
		LoadedAt:   time.Now(),
	}, nil
}

// base returns the current merged table.
func (s *Service) base() ([]model.EnrichedRecord, error) {
	rows, _, err := s.snapshot()
	return rows, err
}

// snapshot returns the current merged table and its generation.
func (s *Service) snapshot() ([]model.EnrichedRecord, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, 0, ErrNotReady
	}
	return s.records, s.gen, nil
}

// Reload drops the cached dataset and rebuilds the merged table. On failure
// the previous table keeps being served.
func (s *Service) Reload(ctx context.Context) (types.DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.DatasetInfo{}, ErrNotReady
	}

	s.cache.Invalidate(s.sources)
	records, info, err := s.build(ctx)
	if err != nil {
		return types.DatasetInfo{}, err
	}
	s.records, s.info = records, info
	s.gen++
	s.summaries.Reset()
	s.logger.Info(ctx, "dataset reloaded", logger.Int("rows", info.Rows))
	return info, nil
}

// Info returns details about the served table.
func (s *Service) Info() (types.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.DatasetInfo{}, ErrNotReady
	}
	return s.info, nil
}

// Filter applies sel to the merged table.
func (s *Service) Filter(ctx context.Context, sel filter.Selection) ([]model.EnrichedRecord, error) {
	rows, err := s.base()
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, rows, sel), nil
}

func (s *Service) apply(ctx context.Context, rows []model.EnrichedRecord, sel filter.Selection) []model.EnrichedRecord {
	start := time.Now()
	out := filter.Apply(rows, sel)
	metrics.RecordPipeline("filter", float64(time.Since(start).Milliseconds()))
	metrics.RecordFilteredRows(len(out))

	s.logger.Debug(ctx, "filter applied",
		logger.Strings("sports", sel.SportList()),
		logger.Strings("regions", sel.RegionList()),
		logger.Int("rows", len(out)),
	)
	return out
}

// Summary recomputes every widget for sel. Results are memoized per table
// generation; callers must not modify the returned slices.
func (s *Service) Summary(ctx context.Context, sel filter.Selection) (types.Summary, error) {
	rows, gen, err := s.snapshot()
	if err != nil {
		return types.Summary{}, err
	}
	key := strconv.FormatUint(gen, 10) + ":" + sel.Key()
	if sum, ok := s.summaries.Get(key); ok {
		return sum, nil
	}

	filtered := s.apply(ctx, rows, sel)
	start := time.Now()
	sum := Summarize(filtered, s.topCountries)
	sum.Selection = types.ViewOf(sel)
	metrics.RecordPipeline("aggregate", float64(time.Since(start).Milliseconds()))
	s.summaries.Put(key, sum)
	return sum, nil
}

// Choices returns the sidebar options for the full table.
func (s *Service) Choices(ctx context.Context) (filter.Choices, error) {
	rows, err := s.base()
	if err != nil {
		return filter.Choices{}, err
	}
	return filter.Options(rows), nil
}

// Records returns a page of the filtered raw table. A limit of zero means
// the default page size; larger limits are capped.
func (s *Service) Records(ctx context.Context, sel filter.Selection, offset, limit int) (types.RecordsPage, error) {
	if offset < 0 || limit < 0 {
		return types.RecordsPage{}, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPage, offset, limit)
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > s.maxRecords {
		limit = s.maxRecords
	}

	rows, err := s.Filter(ctx, sel)
	if err != nil {
		return types.RecordsPage{}, err
	}

	page := types.RecordsPage{Total: len(rows), Offset: offset, Limit: limit, Records: []model.EnrichedRecord{}}
	if offset < len(rows) {
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		page.Records = rows[offset:end]
	}
	return page, nil
}

// CreateSession starts a session holding sel.
func (s *Service) CreateSession(ctx context.Context, sel filter.Selection) (repository.Session, error) {
	store, err := s.store()
	if err != nil {
		return repository.Session{}, err
	}
	return store.Create(ctx, sel)
}

// GetSession returns a session.
func (s *Service) GetSession(ctx context.Context, id string) (repository.Session, error) {
	store, err := s.store()
	if err != nil {
		return repository.Session{}, err
	}
	return store.Get(ctx, id)
}

// UpdateSelection replaces a session's selection.
func (s *Service) UpdateSelection(ctx context.Context, id string, sel filter.Selection) (repository.Session, error) {
	store, err := s.store()
	if err != nil {
		return repository.Session{}, err
	}
	return store.Update(ctx, id, sel)
}

// SessionSummary computes the summary for a session's selection.
func (s *Service) SessionSummary(ctx context.Context, id string) (types.Summary, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return types.Summary{}, err
	}
	return s.Summary(ctx, sess.Selection)
}

// DeleteSession ends a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotReady
	}
	return s.sessions, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"topCountries":     s.topCountries,
		"maxRecordsLimit":  s.maxRecords,
		"duplicatePolicy":  string(s.policy),
		"sessionTTL":       s.sessionTTL.String(),
		"summaryCacheSize": s.summaryCache,
	}

	if s.started {
		sessions := s.sessions.Count(ctx)
		stats["rows"] = s.info.Rows
		stats["duplicateCodes"] = len(s.info.Duplicates)
		stats["unmatchedRows"] = s.info.Unmatched
		stats["loadedAt"] = s.info.LoadedAt.Format(time.RFC3339)
		stats["activeSessions"] = sessions
		stats["cachedDatasets"] = s.cache.Len()
		stats["cachedSummaries"] = s.summaries.Size()

		metrics.UpdateActiveSessions(sessions)
	}

	return stats
}
