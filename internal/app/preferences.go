package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// StateStore keys for persisted preferences and the displayed quote.
const (
	keyPrefsRole    = "prefs.role"
	keyPrefsConsent = "prefs.consent"
	keyCurrentQuote  = "current.quote"
	keyCurrentAuthor = "current.author"
)

// PreferencesStore persists the user settings the orchestrator consumes:
// the selected role and the history-logging consent.
type PreferencesStore struct {
	store ports.StateStore
}

// NewPreferencesStore creates a preferences store over the state store.
func NewPreferencesStore(store ports.StateStore) *PreferencesStore {
	return &PreferencesStore{store: store}
}

// Get reads the persisted preferences. Unset fields take their zero
// values: no role, no consent.
func (p *PreferencesStore) Get(ctx context.Context) (domain.Preferences, error) {
	var prefs domain.Preferences

	role, err := p.store.Get(ctx, keyPrefsRole)
	if err != nil && !domain.IsNotFound(err) {
		return prefs, fmt.Errorf("reading role: %w", err)
	}

	prefs.Role = role

	rawConsent, err := p.store.Get(ctx, keyPrefsConsent)
	if err != nil && !domain.IsNotFound(err) {
		return prefs, fmt.Errorf("reading consent: %w", err)
	}

	if rawConsent != "" {
		consent, parseErr := strconv.ParseBool(rawConsent)
		if parseErr != nil {
			return prefs, fmt.Errorf("parsing consent %q: %w", rawConsent, parseErr)
		}

		prefs.ConsentGiven = consent
	}

	return prefs, nil
}

// Set validates and persists the preferences.
func (p *PreferencesStore) Set(ctx context.Context, prefs domain.Preferences) error {
	if !domain.ValidRole(prefs.Role) {
		return domain.NewValidationError("role", fmt.Sprintf("unknown role %q", prefs.Role))
	}

	err := p.store.SetMany(ctx, map[string]string{
		keyPrefsRole:    prefs.Role,
		keyPrefsConsent: strconv.FormatBool(prefs.ConsentGiven),
	})
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}

	return nil
}
