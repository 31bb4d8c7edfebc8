package app

import (
	"context"
	"sync"

	"github.com/Infernape3000/Tenacio/internal/domain"
)

// fakeStateStore is an in-memory ports.StateStore for tests.
type fakeStateStore struct {
	mu   sync.Mutex
	data map[string]string

	getErr error
	setErr error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{data: make(map[string]string)}
}

func (f *fakeStateStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return "", f.getErr
	}

	v, ok := f.data[key]
	if !ok {
		return "", domain.NewNotFoundError("state key", key)
	}

	return v, nil
}

func (f *fakeStateStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	f.data[key] = value

	return nil
}

func (f *fakeStateStore) SetMany(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	for key, value := range values {
		f.data[key] = value
	}

	return nil
}

func (f *fakeStateStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.data, key)

	return nil
}

// fakeQuoteFinder scripts the two retrieval tiers.
type fakeQuoteFinder struct {
	searchQuotes []*domain.Quote
	searchErr    error
	randomQuote  *domain.Quote
	randomErr    error

	searchCalls int
	randomCalls int
	lastTags    []string
	lastLimit   int
}

func (f *fakeQuoteFinder) Search(_ context.Context, tags []string, limit int) ([]*domain.Quote, error) {
	f.searchCalls++
	f.lastTags = tags
	f.lastLimit = limit

	if f.searchErr != nil {
		return nil, f.searchErr
	}

	return f.searchQuotes, nil
}

func (f *fakeQuoteFinder) Random(_ context.Context) (*domain.Quote, error) {
	f.randomCalls++

	if f.randomErr != nil {
		return nil, f.randomErr
	}

	return f.randomQuote, nil
}

// fakeHistoryStore records appended entries.
type fakeHistoryStore struct {
	mu      sync.Mutex
	entries []*domain.HistoryEntry
	err     error
}

func (f *fakeHistoryStore) Append(_ context.Context, entry *domain.HistoryEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}

	f.entries = append(f.entries, entry)

	return "doc-1", nil
}

func (f *fakeHistoryStore) RecentForUser(_ context.Context, _ string, _ int) ([]*domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.entries, nil
}

func (f *fakeHistoryStore) appended() []*domain.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.HistoryEntry, len(f.entries))
	copy(out, f.entries)

	return out
}

// fakeFlags returns fixed flag values.
type fakeFlags struct {
	bools map[string]bool
}

func (f *fakeFlags) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	if v, ok := f.bools[flag]; ok {
		return v
	}

	return defaultValue
}

func (f *fakeFlags) GetString(_ context.Context, _ string, defaultValue string) string {
	return defaultValue
}

func (f *fakeFlags) GetInt(_ context.Context, _ string, defaultValue int) int {
	return defaultValue
}

// fakeShareGateway records the last shared message.
type fakeShareGateway struct {
	err      error
	messages []string
}

func (f *fakeShareGateway) Share(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}

	f.messages = append(f.messages, message)

	return nil
}
