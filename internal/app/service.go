// Package service provides the core business service that implements
// the dependencies required by the HTTP API. It owns the catalog
// snapshot and plays the role the page controllers had in the original
// game: resolving items, deriving slider ranges, and evaluating guesses.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benklinger/kamaole/internal/adapters/fetch"
	"github.com/benklinger/kamaole/internal/adapters/history"
	"github.com/benklinger/kamaole/internal/adapters/mq/queue"
	"github.com/benklinger/kamaole/internal/adapters/mq/worker"
	"github.com/benklinger/kamaole/internal/adapters/refresh"
	"github.com/benklinger/kamaole/internal/adapters/repository"
	"github.com/benklinger/kamaole/internal/domain/catalog"
	"github.com/benklinger/kamaole/internal/domain/dedupe"
	"github.com/benklinger/kamaole/internal/domain/datekey"
	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/pricing"
	"github.com/benklinger/kamaole/internal/domain/resolve"
	"github.com/benklinger/kamaole/internal/domain/result"
	"github.com/benklinger/kamaole/internal/domain/types"
	"github.com/benklinger/kamaole/pkg/logger"
	"github.com/benklinger/kamaole/pkg/metrics"
)

// Service implements the API dependencies for the game.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       *catalog.Store
	fetcher     fetch.Fetcher
	refresher   *refresh.Refresher
	history     *history.Store
	calc        *pricing.Calculator
	deduper     dedupe.Deduper
	recordQueue queue.Queue
	workerPool  *worker.Pool
	board       *repository.TreapStore

	// Configuration
	dataURL         string
	dataFile        string
	refreshInterval time.Duration
	bundleScheme    string
	partialBundles  bool
	baseStep        int
	minSteps        int
	historySize     int
	queueSize       int
	workerCount     int
	dedupeSize      int

	// State
	started bool
	now     func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFetcher sets the catalog fetcher directly, overriding the
// data URL/file configuration.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithDataURL sets the HTTP location of the catalog document.
func WithDataURL(url string) Option {
	return func(s *Service) {
		s.dataURL = url
	}
}

// WithDataFile sets a local catalog path, used when no URL is set.
func WithDataFile(path string) Option {
	return func(s *Service) {
		s.dataFile = path
	}
}

// WithRefreshInterval sets the background reload interval. Zero
// disables refreshing.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		s.refreshInterval = d
	}
}

// WithBundleScheme selects the bundle display-label scheme: "basket"
// or "meal".
func WithBundleScheme(scheme string) Option {
	return func(s *Service) {
		if scheme == "basket" || scheme == "meal" {
			s.bundleScheme = scheme
		}
	}
}

// WithPartialBundles sets whether partially-resolving bundles are
// playable.
func WithPartialBundles(allow bool) Option {
	return func(s *Service) {
		s.partialBundles = allow
	}
}

// WithSliderTuning sets the base step and minimum step count for the
// derived guessing range.
func WithSliderTuning(baseStep, minSteps int) Option {
	return func(s *Service) {
		if baseStep > 0 {
			s.baseStep = baseStep
		}
		if minSteps > 0 {
			s.minSteps = minSteps
		}
	}
}

// WithHistorySize bounds the in-memory store of evaluated guesses.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithQueueSize bounds the queue of guess records awaiting storage.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets how many workers drain the record queue.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithDedupeSize bounds the set of remembered result fingerprints.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithNow sets the clock used for "today" and "yesterday" computation.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataFile:        "data.json",
		refreshInterval: 5 * time.Minute,
		bundleScheme:    "basket",
		partialBundles:  true,
		baseStep:        10,
		minSteps:        20,
		historySize:     10_000,
		queueSize:       10_000,
		workerCount:     2,
		dedupeSize:      50_000,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and starts the background refresher. A failed
// initial load fails Start: the game never serves a partially
// initialized page.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.fetcher == nil {
		if s.dataURL != "" {
			s.fetcher = fetch.NewHTTPFetcher(s.dataURL)
		} else {
			s.fetcher = fetch.NewFileFetcher(s.dataFile)
		}
	}
	s.calc = pricing.NewCalculator(
		pricing.WithBaseStep(s.baseStep),
		pricing.WithMinSteps(s.minSteps),
	)
	s.history = history.NewStore(
		history.WithMaxSize(s.historySize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.recordQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.board = repository.NewTreapStore(ctx)
	s.workerPool = worker.NewPool(s.workerCount, s.recordQueue, newGuessRecorder(s.history, s.board))
	s.mu.Unlock()

	s.logger.Info(ctx, "starting game service...")

	if err := s.Reload(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	s.mu.Lock()
	if s.refreshInterval > 0 {
		s.refresher = refresh.New(s,
			refresh.WithInterval(s.refreshInterval),
			refresh.WithLogger(s.logger),
		)
		go s.refresher.Run(ctx)
	}
	s.workerPool.Start(ctx)
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "game service started",
		logger.Int("days", s.snapshot().Len()),
		logger.String("bundleScheme", s.bundleScheme),
		logger.Any("partialBundles", s.partialBundles),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.refresher != nil {
		_ = s.refresher.Shutdown(context.Background())
	}
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(context.Background())
	}
	if s.board != nil {
		_ = s.board.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

// Reload fetches and decodes the catalog, swapping the snapshot on
// success. On failure the previous snapshot, if any, stays in place.
func (s *Service) Reload(ctx context.Context) error {
	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RecordCatalogLoadError()
		return err
	}
	store, err := catalog.Load(raw)
	if err != nil {
		metrics.RecordCatalogLoadError()
		return err
	}
	metrics.RecordCatalogLoad(store.Len())

	s.mu.Lock()
	s.store = store
	s.mu.Unlock()

	s.logger.Info(ctx, "catalog loaded", logger.Int("days", store.Len()))
	return nil
}

// snapshot returns the current catalog, or nil before the first load.
func (s *Service) snapshot() *catalog.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// resolverFor builds a resolver over a snapshot with the configured
// bundle policy.
func (s *Service) resolverFor(store *catalog.Store) *resolve.Resolver {
	return resolve.New(store, resolve.WithPartialBundles(s.partialBundles))
}

// Options returns the landing view for dateKey, defaulting to today:
// the first product and first bundle of the day as playable options.
func (s *Service) Options(ctx context.Context, dateKey string) (types.OptionsView, error) {
	store := s.snapshot()
	if store == nil {
		return types.OptionsView{}, ErrNotStarted
	}
	if dateKey == "" {
		dateKey = datekey.Format(s.now())
	}
	date, err := datekey.Parse(dateKey)
	if err != nil {
		return types.OptionsView{}, fmt.Errorf("%w: %w", ErrBadDate, err)
	}
	day, ok := store.Day(dateKey)
	if !ok {
		return types.OptionsView{}, fmt.Errorf("%w: %s", ErrNoGameForDate, dateKey)
	}

	r := s.resolverFor(store)
	dayName := datekey.DayName(date)

	var options []types.NavOption
	for _, kind := range []model.ItemKind{model.KindProduct, model.KindBundle} {
		item, ok := r.FirstOfKind(dateKey, kind)
		if !ok {
			continue
		}
		options = append(options, types.NavOption{
			Title:    item.DisplayName,
			Subtitle: itemSubtitle(s.bundleScheme, kind, dayName, dateKey),
			Date:     dateKey,
			Type:     string(kind),
			ID:       item.ID,
		})
	}

	return types.OptionsView{
		Date:    dateKey,
		DayName: dayName,
		Options: options,
		Footer:  s.footerView(dateKey, date, day.Location),
	}, nil
}

// Game returns the guessing view for a resolved item: title, member
// images, and the derived slider range with its midpoint initial value.
func (s *Service) Game(ctx context.Context, dateKey string, kind model.ItemKind, id int) (types.GameView, error) {
	store := s.snapshot()
	if store == nil {
		return types.GameView{}, ErrNotStarted
	}
	date, err := datekey.Parse(dateKey)
	if err != nil {
		return types.GameView{}, fmt.Errorf("%w: %w", ErrBadDate, err)
	}
	day, ok := store.Day(dateKey)
	if !ok {
		return types.GameView{}, fmt.Errorf("%w: %s", ErrNoGameForDate, dateKey)
	}

	item, ok := s.resolverFor(store).ResolveExact(dateKey, kind, id)
	if !ok {
		metrics.RecordResolutionMiss(string(kind))
		return types.GameView{}, fmt.Errorf("%w: %s %d on %s", ErrItemNotFound, kind, id, dateKey)
	}

	totals, err := pricing.Aggregate(item.Members)
	if err != nil {
		return types.GameView{}, err
	}
	bounds := s.calc.SliderBounds(
		pricing.ToMinorUnits(totals.Min),
		pricing.ToMinorUnits(totals.Max),
	)

	members := make([]types.MemberImage, len(item.Members))
	for i, m := range item.Members {
		members[i] = types.MemberImage{Name: m.Name, ImageRef: m.ImageRef}
	}
	var subtitle *string
	if item.Kind == model.KindBundle {
		subtitle = &item.Members[0].Name
	}

	metrics.RecordGameServed(string(item.Kind))
	s.logger.Debug(ctx, "game served",
		logger.String("date", dateKey),
		logger.String("kind", string(item.Kind)),
		logger.Int("id", item.ID),
	)

	return types.GameView{
		Date:     dateKey,
		Type:     string(item.Kind),
		ID:       item.ID,
		Title:    item.DisplayName,
		Subtitle: subtitle,
		Members:  members,
		Slider: types.SliderView{
			Step:    bounds.Step,
			Lower:   bounds.Lower,
			Upper:   bounds.Upper,
			Initial: bounds.Midpoint(),
		},
		Footer: s.footerView(dateKey, date, day.Location),
	}, nil
}

// Result evaluates a confirmed guess against the item's actual price
// and computes the follow-up navigation options.
func (s *Service) Result(ctx context.Context, dateKey string, kind model.ItemKind, id, guessMinor int) (types.ResultView, error) {
	store := s.snapshot()
	if store == nil {
		return types.ResultView{}, ErrNotStarted
	}
	date, err := datekey.Parse(dateKey)
	if err != nil {
		return types.ResultView{}, fmt.Errorf("%w: %w", ErrBadDate, err)
	}
	day, ok := store.Day(dateKey)
	if !ok {
		return types.ResultView{}, fmt.Errorf("%w: %s", ErrNoGameForDate, dateKey)
	}

	r := s.resolverFor(store)
	item, ok := r.ResolveExact(dateKey, kind, id)
	if !ok {
		metrics.RecordResolutionMiss(string(kind))
		return types.ResultView{}, fmt.Errorf("%w: %s %d on %s", ErrItemNotFound, kind, id, dateKey)
	}

	totals, err := pricing.Aggregate(item.Members)
	if err != nil {
		return types.ResultView{}, err
	}
	actualMinor := pricing.ToMinorUnits(totals.Actual)
	outcome := result.Evaluate(actualMinor, guessMinor)

	var breakdown []types.BreakdownLine
	if item.Kind == model.KindBundle {
		for _, line := range result.Breakdown(item.Members) {
			breakdown = append(breakdown, types.BreakdownLine{
				Name:      line.Name,
				Minor:     line.PriceMinor,
				Formatted: formatPrice(line.PriceMinor),
			})
		}
	}

	options, hasYesterday := s.navOptions(r, dateKey, item.Kind, item.ID)

	view := types.ResultView{
		Date:            dateKey,
		Type:            string(item.Kind),
		ID:              item.ID,
		ActualMinor:     actualMinor,
		ActualTitle:     actualPriceTitle(actualMinor),
		FormattedActual: formatPrice(actualMinor),
		GuessMinor:      guessMinor,
		Delta:           outcome.Delta,
		Verdict:         string(outcome.Verdict),
		Message:         verdictMessage(outcome),
		Breakdown:       breakdown,
		Options:         options,
		Footer:          s.footerView(dateKey, date, day.Location),
	}
	if !hasYesterday {
		view.NoYesterday = msgNoYesterday
	}

	s.record(ctx, dateKey, item, guessMinor, actualMinor, outcome)

	return view, nil
}

// record counts one evaluation in history and metrics. Reloading the
// result page re-fires the same request; the fingerprint keeps it from
// double-counting. Storage happens off the request path through the
// record queue.
func (s *Service) record(ctx context.Context, dateKey string, item model.ResolvedItem, guessMinor, actualMinor int, outcome result.Outcome) {
	fingerprint := fmt.Sprintf("%s|%s|%d|%d", dateKey, item.Kind, item.ID, guessMinor)
	if s.deduper.SeenAndRecord(ctx, fingerprint) {
		return
	}

	ok := s.recordQueue.Enqueue(ctx, history.Record{
		Date:        dateKey,
		Kind:        item.Kind,
		ItemID:      item.ID,
		GuessMinor:  guessMinor,
		ActualMinor: actualMinor,
		Delta:       outcome.Delta,
		Verdict:     outcome.Verdict,
	})
	if !ok {
		// Allow a retry on the next evaluation of the same guess.
		s.deduper.Unrecord(ctx, fingerprint)
		s.logger.Warn(ctx, "record queue full; guess not recorded", logger.String("fingerprint", fingerprint))
	}

	absDelta := outcome.Delta
	if absDelta < 0 {
		absDelta = -absDelta
	}
	metrics.RecordGuessEvaluated(string(outcome.Verdict), absDelta)
}

// navOptions computes the cross-day follow-up suggestions: yesterday's
// version of the played item, then today's complementary kind. The
// second return reports whether yesterday's game exists.
func (s *Service) navOptions(r *resolve.Resolver, dateKey string, kind model.ItemKind, id int) ([]types.NavOption, bool) {
	var options []types.NavOption
	hasYesterday := false

	if target, ok := result.YesterdayTarget(r, dateKey, kind, id); ok {
		if date, err := datekey.Parse(target.Date); err == nil {
			hasYesterday = true
			options = append(options, types.NavOption{
				Title:    target.Title,
				Subtitle: itemSubtitle(s.bundleScheme, target.Kind, datekey.DayName(date), datekey.DisplayDate(date)),
				Date:     target.Date,
				Type:     string(target.Kind),
				ID:       target.ID,
			})
		}
	}

	today := s.now()
	todayKey := datekey.Format(today)
	if target, ok := result.ComplementaryTarget(r, todayKey, kind); ok {
		options = append(options, types.NavOption{
			Title:    target.Title,
			Subtitle: itemSubtitle(s.bundleScheme, target.Kind, datekey.DayName(today), datekey.DisplayDate(today)),
			Date:     target.Date,
			Type:     string(target.Kind),
			ID:       target.ID,
		})
	}
	return options, hasYesterday
}

// footerView composes the footer line for a day record.
func (s *Service) footerView(dateKey string, date time.Time, location string) types.FooterView {
	phrase := datekey.FooterPhrase(date, s.now())
	return types.FooterView{
		Text:     footerText(phrase, location),
		Date:     dateKey,
		Location: location,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"bundleScheme":   s.bundleScheme,
		"partialBundles": s.partialBundles,
	}
	if s.store != nil {
		stats["catalogDays"] = s.store.Len()
	}
	if s.recordQueue != nil {
		stats["recordQueueLength"] = s.recordQueue.Len(context.Background())
	}
	if s.deduper != nil {
		stats["dedupeSize"] = s.deduper.Size()
	}
	if s.board != nil {
		ctx := context.Background()
		stats["boardItems"] = s.board.Count(ctx)
		if top, err := s.board.TopN(ctx, 5); err == nil && len(top) > 0 {
			stats["topClosest"] = top
		}
	}
	if s.history != nil {
		sum := s.history.Summarize()
		stats["guessesEvaluated"] = sum.Total
		stats["meanAbsDelta"] = sum.MeanAbsDelta
		byVerdict := make(map[string]int, len(sum.ByVerdict))
		for v, n := range sum.ByVerdict {
			byVerdict[string(v)] = n
		}
		stats["byVerdict"] = byVerdict
	}
	return stats
}
