// Package acl implements the Anti-Corruption Layer pattern.
// Adapters here translate between external service wire formats and domain
// types, keeping provider quirks out of the application core.
package acl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Infernape3000/Tenacio/internal/adapters/clients"
	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// Retrieval tier names carried in domain.RetrievalError.
const (
	tierTagSearch      = "tag-search"
	tierRandomFallback = "random-fallback"
)

// maxSearchLimit caps the candidate count sent to the provider.
const maxSearchLimit = 50

// QuoteClient adapts the remote quote provider to ports.QuoteFinder.
//
// The provider speaks the quotable wire format:
//   - GET /quotes/random?limit=N&tags=a|b  (pipe-delimited OR filter)
//   - GET /random                          (single unconditional quote)
//
// Both endpoints return quote objects with _id/content/author/tags fields;
// the tag-filtered endpoint wraps them in an array.
type QuoteClient struct {
	BaseAdapter
}

// compile-time interface checks.
var (
	_ ports.QuoteFinder   = (*QuoteClient)(nil)
	_ ports.HealthChecker = (*QuoteClient)(nil)
)

// NewQuoteClient creates a quote provider adapter using the given HTTP client.
func NewQuoteClient(client *clients.Client) *QuoteClient {
	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(client, "quote-service"),
	}
}

// quotableQuote is the provider's wire representation of a single quote.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Length  int      `json:"length"`
}

// translateQuote converts the provider representation to the domain entity.
// A quote without content is rejected here so it never reaches callers.
func translateQuote(ext *quotableQuote) (*domain.Quote, error) {
	if err := ValidateRequired(ext.Content, "content"); err != nil {
		return nil, err
	}

	return &domain.Quote{
		ID:     ext.ID,
		Text:   ext.Content,
		Author: ext.Author,
		Tags:   ext.Tags,
	}, nil
}

// Search queries the tag-filtered endpoint. The provider treats the
// pipe-delimited tag list as an OR filter. A response with no matches is
// returned as an empty slice with no error; transport and status failures
// come back as domain.RetrievalError for the tag-search tier.
func (c *QuoteClient) Search(ctx context.Context, tags []string, limit int) ([]*domain.Quote, error) {
	if len(tags) == 0 {
		return nil, domain.NewValidationError("tags", "at least one tag is required")
	}

	if limit <= 0 || limit > maxSearchLimit {
		return nil, domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxSearchLimit))
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("tags", strings.Join(tags, "|"))

	path := "/quotes/random?" + query.Encode()

	body, err := c.Get(ctx, path, "search quotes")
	if err != nil {
		return nil, c.retrievalError(tierTagSearch, err)
	}

	external, err := DecodeResponse[[]quotableQuote](body)
	if err != nil {
		return nil, domain.NewRetrievalError(tierTagSearch, 0,
			domain.NewUnavailableError(c.ServiceName(), err.Error()))
	}

	return TranslateSlice(*external, translateQuote)
}

// Random fetches one quote from the unconditional endpoint. Failures come
// back as domain.RetrievalError for the random-fallback tier.
func (c *QuoteClient) Random(ctx context.Context) (*domain.Quote, error) {
	body, err := c.Get(ctx, "/random", "fetch random quote")
	if err != nil {
		return nil, c.retrievalError(tierRandomFallback, err)
	}

	external, err := DecodeResponse[quotableQuote](body)
	if err != nil {
		return nil, domain.NewRetrievalError(tierRandomFallback, 0,
			domain.NewUnavailableError(c.ServiceName(), err.Error()))
	}

	return translateQuote(external)
}

// retrievalError wraps an already-mapped downstream error with the tier
// that produced it, carrying the originating HTTP status when the provider
// responded at all. A provider 404 on the tag endpoint means "no match",
// which Search reports as an empty result rather than a failure.
func (c *QuoteClient) retrievalError(tier string, err error) error {
	if tier == tierTagSearch && domain.IsNotFound(err) {
		return nil
	}

	return domain.NewRetrievalError(tier, HTTPStatus(err), err)
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker by fetching one random quote.
func (c *QuoteClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, "/random", "health check")
	if err != nil {
		return err
	}

	_ = body.Close()

	return nil
}
