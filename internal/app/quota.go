package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// StateStore keys for the persisted quota fields.
const (
	keyQuotaRemaining = "quota.remaining"
	keyQuotaLastReset = "quota.last_reset_date"
)

// QuotaStore is the date-keyed daily-allowance state machine. State lives
// in the injected StateStore so it survives restarts; the store is read
// before the first CheckAndReset so a rollover that happened while the
// process was down is still detected.
type QuotaStore struct {
	store  ports.StateStore
	max    int
	logger *slog.Logger

	// now is overridable for tests that cross calendar days.
	now func() time.Time
}

// NewQuotaStore creates a quota store over the given state store.
// A non-positive max falls back to domain.QuotaMax.
func NewQuotaStore(store ports.StateStore, max int, logger *slog.Logger) *QuotaStore {
	if max <= 0 {
		max = domain.QuotaMax
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QuotaStore{
		store:  store,
		max:    max,
		logger: logger.With(slog.String("component", "app.QuotaStore")),
		now:    time.Now,
	}
}

// Max returns the daily allowance ceiling.
func (q *QuotaStore) Max() int {
	return q.max
}

// State reads the persisted quota state. A never-written store yields the
// first-run defaults: a full allowance and no reset date.
func (q *QuotaStore) State(ctx context.Context) (domain.QuotaState, error) {
	st := domain.QuotaState{Remaining: q.max}

	raw, err := q.store.Get(ctx, keyQuotaRemaining)
	switch {
	case domain.IsNotFound(err):
		return st, nil
	case err != nil:
		return st, fmt.Errorf("reading quota remaining: %w", err)
	}

	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return st, fmt.Errorf("parsing quota remaining %q: %w", raw, err)
	}

	st.Remaining = remaining

	lastReset, err := q.store.Get(ctx, keyQuotaLastReset)
	if err != nil && !domain.IsNotFound(err) {
		return st, fmt.Errorf("reading quota reset date: %w", err)
	}

	st.LastResetDate = lastReset

	return st, nil
}

// CheckAndReset compares today's local calendar day to the persisted reset
// date and, when they differ, restores the full allowance and stamps today.
// Calling it again on the same day is a no-op. It must run once at process
// start before any quota check.
func (q *QuotaStore) CheckAndReset(ctx context.Context) error {
	st, err := q.State(ctx)
	if err != nil {
		return err
	}

	today := q.now().Format(time.DateOnly)
	if st.LastResetDate == today {
		q.logger.DebugContext(ctx, "quota already current", slog.String("date", today))
		return nil
	}

	q.logger.InfoContext(ctx, "resetting daily quota",
		slog.String("date", today),
		slog.Int("remaining", q.max),
	)

	// One atomic write: a crash between the two fields would otherwise
	// re-grant a full allowance on the next start.
	err = q.store.SetMany(ctx, map[string]string{
		keyQuotaRemaining: strconv.Itoa(q.max),
		keyQuotaLastReset: today,
	})
	if err != nil {
		return fmt.Errorf("writing quota reset: %w", err)
	}

	return nil
}

// HasQuota reports whether a request may proceed. Premium callers bypass
// the allowance entirely.
func (q *QuotaStore) HasQuota(ctx context.Context, premium bool) (bool, error) {
	if premium {
		return true, nil
	}

	st, err := q.State(ctx)
	if err != nil {
		return false, err
	}

	return st.Remaining > 0, nil
}

// Decrement consumes one unit of the allowance, clamping at zero. It is
// called only after a successful retrieval and never for premium callers;
// a failed or cancelled request must not consume quota.
func (q *QuotaStore) Decrement(ctx context.Context) error {
	st, err := q.State(ctx)
	if err != nil {
		return err
	}

	remaining := st.Remaining - 1
	if remaining < 0 {
		remaining = 0
	}

	if err := q.store.Set(ctx, keyQuotaRemaining, strconv.Itoa(remaining)); err != nil {
		return fmt.Errorf("writing quota remaining: %w", err)
	}

	return nil
}
