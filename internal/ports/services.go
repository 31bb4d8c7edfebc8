// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Methods represent business operations, not CRUD operations
package ports

import (
	"context"

	"github.com/Infernape3000/Tenacio/internal/domain"
)

// QuoteFinder is the contract for the remote quote provider.
// Adapters translate the provider's wire format into domain.Quote.
type QuoteFinder interface {
	// Search queries the tag-filtered endpoint with a pipe-delimited tag
	// list and a result-count limit, returning the provider's ordered
	// candidates. An empty slice (no error) means the search matched
	// nothing; the caller decides whether to fall back.
	// Returns domain.RetrievalError on any non-2xx response.
	Search(ctx context.Context, tags []string, limit int) ([]*domain.Quote, error)

	// Random fetches exactly one quote from the unconditional endpoint.
	// Returns domain.RetrievalError on any non-2xx response.
	Random(ctx context.Context) (*domain.Quote, error)
}

// HistoryStore is the append-only write target for completed interactions.
// There is no read path for the standard flow; RecentForUser exists only to
// feed the premium selection strategy and is best effort.
type HistoryStore interface {
	// Append persists one history entry under a generated document ID and
	// returns that ID. The store stamps the timestamp server-side.
	Append(ctx context.Context, entry *domain.HistoryEntry) (string, error)

	// RecentForUser returns up to limit recent entries for the user,
	// newest first. Implementations may return an empty slice.
	RecentForUser(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error)
}

// StateStore is durable key-value storage for the persisted application
// state: quota fields, preferences and the current displayed quote.
// Implementations must make writes visible to subsequent reads immediately;
// the orchestration flow is the only writer, so no further coordination is
// required.
type StateStore interface {
	// Get retrieves the value for key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value for key, creating or overwriting.
	Set(ctx context.Context, key, value string) error

	// SetMany stores every key-value pair as one atomic write, so related
	// fields like the quota counter and its reset date can never be
	// observed half-updated after a crash.
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ShareGateway hands a formatted quote to the platform share surface.
// A user dismissing the sheet is an expected outcome and is reported as
// domain.ErrShareCanceled, distinct from a genuine failure.
type ShareGateway interface {
	// Share presents the message. Returns domain.ErrShareCanceled when
	// the user dismissed the sheet, or another error on real failure.
	Share(ctx context.Context, message string) error
}
