// Package app contains application services implementing business logic.
// Services orchestrate domain entities and coordinate with ports,
// remaining independent of transport and infrastructure concerns.
package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
	"github.com/Infernape3000/Tenacio/internal/sentiment"
)

// defaultSearchLimit is the candidate count requested from the tag-filtered
// retrieval tier. Only the first candidate reaches the caller; the rest
// exist for the premium selection strategy.
const defaultSearchLimit = 5

// historyAppendTimeout bounds the detached history write so an unreachable
// history store cannot leak goroutines.
const historyAppendTimeout = 5 * time.Second

// recentHistoryWindow is how many recent entries the premium selection
// strategy considers when avoiding repeats.
const recentHistoryWindow = 10

// InsightService is the orchestrator for one insight request: it gates on
// the daily quota, derives search signals from the input text, resolves a
// quote through the tiered provider, persists the outcome and dispatches
// the history record.
type InsightService struct {
	exec    *Executor
	quotes  ports.QuoteFinder
	state   ports.StateStore
	prefs   *PreferencesStore
	quota   *QuotaStore
	history ports.HistoryStore
	flags   ports.FeatureFlags
	logger  *slog.Logger

	searchLimit int

	// pending tracks in-flight detached history writes so shutdown and
	// tests can drain them.
	pending sync.WaitGroup
}

// NewInsightService creates the orchestrator with its dependencies.
func NewInsightService(
	exec *Executor,
	quotes ports.QuoteFinder,
	state ports.StateStore,
	prefs *PreferencesStore,
	quota *QuotaStore,
	history ports.HistoryStore,
	flags ports.FeatureFlags,
	logger *slog.Logger,
) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}

	return &InsightService{
		exec:        exec,
		quotes:      quotes,
		state:       state,
		prefs:       prefs,
		quota:       quota,
		history:     history,
		flags:       flags,
		logger:      logger.With(slog.String("component", "app.InsightService")),
		searchLimit: defaultSearchLimit,
	}
}

// insightInput carries one request through the transactional steps.
// Premium and preferences are resolved once, before execution starts, so
// every step sees a consistent view.
type insightInput struct {
	userID  string
	text    string
	premium bool
	prefs   domain.Preferences
}

// retrievalOutcome is the state produced by Perform and confirmed by Verify.
type retrievalOutcome struct {
	quote        *domain.Quote
	signals      domain.Signals
	searchTags   []string
	fromFallback bool
}

// RequestInsight runs the full orchestration cycle for one piece of user
// text and returns the resolved insight. The quota is consumed only after
// a verified success; validation failures, provider failures and
// cancellations leave it untouched.
func (s *InsightService) RequestInsight(ctx context.Context, userID, text string) (*domain.Insight, error) {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return nil, err
	}

	input := insightInput{
		userID:  userID,
		text:    text,
		premium: s.flags.IsEnabled(ctx, ports.FlagPremiumInsights, false),
		prefs:   prefs,
	}

	op := Operation[insightInput, *retrievalOutcome, *retrievalOutcome, *domain.Insight]{
		Name:     "request_insight",
		Validate: s.validateRequest,
		Perform:  s.resolveQuote,
		Verify:   s.verifyQuote,
		Archive:  s.archiveOutcome,
		Respond:  s.buildInsight,
	}

	return Execute(ctx, s.exec, op, input)
}

// validateRequest rejects blank input and enforces the daily allowance.
// The reset check runs first so a request after midnight sees the fresh
// allowance even when the process has been up across the rollover.
func (s *InsightService) validateRequest(ctx context.Context, input insightInput) error {
	if strings.TrimSpace(input.text) == "" {
		return domain.NewValidationError("text", "input text must not be blank")
	}

	if err := s.quota.CheckAndReset(ctx); err != nil {
		return err
	}

	ok, err := s.quota.HasQuota(ctx, input.premium)
	if err != nil {
		return err
	}

	if !ok {
		return domain.NewQuotaExhaustedError()
	}

	return nil
}

// resolveQuote clears the displayed quote, derives the search signals and
// walks the retrieval tiers: the tag-filtered search first, then a single
// unconditional random fetch when the search has nothing to offer.
func (s *InsightService) resolveQuote(ctx context.Context, input insightInput) (*retrievalOutcome, error) {
	// The previous quote is stale the moment a new request starts.
	if err := s.state.Delete(ctx, keyCurrentQuote); err != nil {
		return nil, err
	}

	if err := s.state.Delete(ctx, keyCurrentAuthor); err != nil {
		return nil, err
	}

	signals := sentiment.Analyze(input.text)
	tags := searchTags(signals.Keywords, input.prefs.Role)

	outcome := &retrievalOutcome{signals: signals, searchTags: tags}

	if len(tags) > 0 {
		candidates, err := s.quotes.Search(ctx, tags, s.searchLimit)
		if err != nil {
			return nil, err
		}

		if len(candidates) > 0 {
			outcome.quote = s.selectCandidate(ctx, input, candidates)
			return outcome, nil
		}
	}

	// The fallback runs only when the search had nothing to offer. A provider
	// failure at either tier fails the request.
	quote, err := s.quotes.Random(ctx)
	if err != nil {
		return nil, err
	}

	outcome.quote = quote
	outcome.fromFallback = true

	return outcome, nil
}

// selectCandidate picks the quote to surface from the provider's ordered
// candidates. Free-tier callers always get the first one. Premium callers
// get the first candidate they have not seen recently, with the head as
// the fallback when everything is a repeat or history is unreachable.
func (s *InsightService) selectCandidate(ctx context.Context, input insightInput, candidates []*domain.Quote) *domain.Quote {
	if !input.premium || len(candidates) == 1 {
		return candidates[0]
	}

	recent, err := s.history.RecentForUser(ctx, input.userID, recentHistoryWindow)
	if err != nil {
		s.logger.WarnContext(ctx, "recent history unavailable, using first candidate",
			slog.Any("error", err),
		)

		return candidates[0]
	}

	seen := make(map[string]struct{}, len(recent))
	for _, entry := range recent {
		seen[entry.QuoteText] = struct{}{}
	}

	for _, candidate := range candidates {
		if _, ok := seen[candidate.Text]; !ok {
			return candidate
		}
	}

	return candidates[0]
}

// verifyQuote rejects an empty result before anything is persisted.
func (s *InsightService) verifyQuote(_ context.Context, _ insightInput, performed *retrievalOutcome) (*retrievalOutcome, error) {
	if performed == nil || performed.quote.IsZero() {
		return nil, domain.NewUnavailableError("quote provider", "provider returned an empty quote")
	}

	return performed, nil
}

// archiveOutcome persists the verified quote, consumes one quota unit for
// free-tier callers and dispatches the history record for authenticated
// users who opted in. The history write is detached: its failure is logged,
// never surfaced, and never rolls back the insight.
func (s *InsightService) archiveOutcome(ctx context.Context, input insightInput, verified *retrievalOutcome) error {
	if err := s.state.Set(ctx, keyCurrentQuote, verified.quote.Text); err != nil {
		return err
	}

	if err := s.state.Set(ctx, keyCurrentAuthor, verified.quote.Author); err != nil {
		return err
	}

	if !input.premium {
		if err := s.quota.Decrement(ctx); err != nil {
			return err
		}
	}

	if s.recordsHistory(input) {
		s.dispatchHistory(ctx, input, verified)
	}

	return nil
}

// recordsHistory reports whether this request produces a history record.
// Without consent, or without an authenticated subject, nothing is written
// at all.
func (s *InsightService) recordsHistory(input insightInput) bool {
	return input.prefs.ConsentGiven &&
		input.userID != "" &&
		input.userID != domain.AnonymousUser
}

// buildInsight assembles the caller-facing result, including the allowance
// left after this request.
func (s *InsightService) buildInsight(ctx context.Context, _ insightInput, verified *retrievalOutcome) (*domain.Insight, error) {
	st, err := s.quota.State(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Insight{
		Quote:        verified.quote,
		Signals:      verified.signals,
		SearchTags:   verified.searchTags,
		FromFallback: verified.fromFallback,
		Remaining:    st.Remaining,
	}, nil
}

// dispatchHistory appends the interaction record on a detached context so
// the response never waits on the history store and a client disconnect
// never cancels the write.
func (s *InsightService) dispatchHistory(ctx context.Context, input insightInput, verified *retrievalOutcome) {
	entry := domain.NewHistoryEntry(
		input.userID,
		input.prefs.Role,
		input.text,
		input.prefs.ConsentGiven,
		verified.signals,
		verified.searchTags,
		verified.quote,
	)

	detached := context.WithoutCancel(ctx)

	s.pending.Add(1)

	go func() {
		defer s.pending.Done()

		appendCtx, cancel := context.WithTimeout(detached, historyAppendTimeout)
		defer cancel()

		id, err := s.history.Append(appendCtx, entry)
		if err != nil {
			s.logger.WarnContext(appendCtx, "history append failed",
				slog.Any("error", err),
				slog.String("user_id", input.userID),
			)

			return
		}

		s.logger.DebugContext(appendCtx, "history entry appended",
			slog.String("document_id", id),
		)
	}()
}

// Flush blocks until every dispatched history write has finished. Called
// during graceful shutdown and by tests.
func (s *InsightService) Flush() {
	s.pending.Wait()
}

// Current returns the quote persisted by the most recent successful
// request, or domain.ErrNotFound when none is displayed.
func (s *InsightService) Current(ctx context.Context) (*domain.Quote, error) {
	text, err := s.state.Get(ctx, keyCurrentQuote)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError("current quote", "")
		}

		return nil, err
	}

	author, err := s.state.Get(ctx, keyCurrentAuthor)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}

	return &domain.Quote{Text: text, Author: author}, nil
}

// Quota reports the live allowance state, running the rollover check first
// so a caller polling across midnight sees the refreshed value.
func (s *InsightService) Quota(ctx context.Context) (domain.QuotaState, error) {
	if err := s.quota.CheckAndReset(ctx); err != nil {
		return domain.QuotaState{}, err
	}

	return s.quota.State(ctx)
}

// QuotaMax reports the configured daily allowance ceiling.
func (s *InsightService) QuotaMax() int {
	return s.quota.Max()
}

// searchTags builds the ordered tag set for the provider: the derived
// keywords followed by the lower-cased role when one is selected.
func searchTags(keywords []string, role string) []string {
	tags := make([]string, 0, len(keywords)+1)
	tags = append(tags, keywords...)

	if role != "" {
		tags = append(tags, strings.ToLower(role))
	}

	return tags
}
