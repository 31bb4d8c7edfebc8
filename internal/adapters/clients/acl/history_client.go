package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Infernape3000/Tenacio/internal/adapters/clients"
	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// HistoryClient adapts the remote history collection to ports.HistoryStore.
// Documents are written under a client-generated UUID so a retried request
// overwrites its own document instead of duplicating it.
type HistoryClient struct {
	BaseAdapter

	newID func() string
}

var (
	_ ports.HistoryStore  = (*HistoryClient)(nil)
	_ ports.HealthChecker = (*HistoryClient)(nil)
)

// NewHistoryClient creates a history store adapter using the given HTTP client.
func NewHistoryClient(client *clients.Client) *HistoryClient {
	return &HistoryClient{
		BaseAdapter: NewBaseAdapter(client, "history-service"),
		newID:       func() string { return uuid.NewString() },
	}
}

// historyDocument is the wire representation of one history entry.
// The input_text field is omitted entirely when absent; an empty string in
// storage would be indistinguishable from consented empty input.
type historyDocument struct {
	DocumentID     string   `json:"document_id"`
	UserID         string   `json:"user_id"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Role           string   `json:"role,omitempty"`
	SentimentScore int      `json:"sentiment_score"`
	EmotionLabel   string   `json:"emotion_label"`
	QuoteText      string   `json:"quote_text"`
	QuoteAuthor    string   `json:"quote_author"`
	KeywordsUsed   []string `json:"keywords_used"`
	InputText      *string  `json:"input_text,omitempty"`
}

// toDocument builds the wire document from a domain entry.
func toDocument(id string, entry *domain.HistoryEntry) *historyDocument {
	doc := &historyDocument{
		DocumentID:     id,
		UserID:         entry.UserID,
		Role:           entry.Role,
		SentimentScore: entry.SentimentScore,
		EmotionLabel:   string(entry.EmotionLabel),
		QuoteText:      entry.QuoteText,
		QuoteAuthor:    entry.QuoteAuthor,
		KeywordsUsed:   entry.KeywordsUsed,
	}

	if entry.HasInputText {
		text := entry.InputText
		doc.InputText = &text
	}

	return doc
}

// translateDocument converts a wire document back into the domain entry.
func translateDocument(ext *historyDocument) (*domain.HistoryEntry, error) {
	if err := ValidateRequired(ext.UserID, "user_id"); err != nil {
		return nil, err
	}

	entry := &domain.HistoryEntry{
		UserID:         ext.UserID,
		Role:           ext.Role,
		SentimentScore: ext.SentimentScore,
		EmotionLabel:   domain.EmotionLabel(ext.EmotionLabel),
		QuoteText:      ext.QuoteText,
		QuoteAuthor:    ext.QuoteAuthor,
		KeywordsUsed:   ext.KeywordsUsed,
	}

	if ext.InputText != nil {
		entry.InputText = *ext.InputText
		entry.HasInputText = true
	}

	if ext.Timestamp != "" {
		// The collection stamps timestamps server-side; a malformed one is
		// not worth failing the read.
		if ts, err := time.Parse(time.RFC3339, ext.Timestamp); err == nil {
			entry.Timestamp = ts
		}
	}

	return entry, nil
}

// appendResponse is the collection's acknowledgement of a write.
type appendResponse struct {
	DocumentID string `json:"document_id"`
}

// Append persists one entry and returns the document ID it was written
// under. The ID is generated client-side.
func (c *HistoryClient) Append(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	if entry == nil {
		return "", domain.NewValidationError("entry", "is required")
	}

	if err := ValidateRequired(entry.UserID, "user_id"); err != nil {
		return "", err
	}

	id := c.newID()

	payload, err := json.Marshal(toDocument(id, entry))
	if err != nil {
		return "", fmt.Errorf("encoding history document: %w", err)
	}

	body, err := c.Post(ctx, "/v1/history", bytes.NewReader(payload), "append history entry")
	if err != nil {
		return "", err
	}

	ack, err := DecodeResponseForService[appendResponse](body, c.ServiceName())
	if err != nil {
		return "", err
	}

	if ack.DocumentID != "" {
		return ack.DocumentID, nil
	}

	return id, nil
}

// RecentForUser returns up to limit entries for the user, newest first.
// An unknown user is an empty result, not an error.
func (c *HistoryClient) RecentForUser(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error) {
	if err := ValidateRequired(userID, "user_id"); err != nil {
		return nil, err
	}

	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.Get(ctx, "/v1/history?"+query.Encode(), "list history entries")
	if err != nil {
		if domain.IsNotFound(err) {
			return []*domain.HistoryEntry{}, nil
		}

		return nil, err
	}

	external, err := DecodeResponseForService[[]historyDocument](body, c.ServiceName())
	if err != nil {
		return nil, err
	}

	return TranslateSlice(*external, translateDocument)
}

// Name implements ports.HealthChecker.
func (c *HistoryClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker with a cheap list probe.
func (c *HistoryClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, "/v1/history?limit=1&user_id=health-probe", "health check")
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}

		return err
	}

	_ = body.Close()

	return nil
}
