package domain

import "time"

// QuotaMax is the number of free insight requests granted per calendar day.
const QuotaMax = 5

// QuotaState is the persisted daily-allowance state.
// Remaining never exceeds QuotaMax and never goes below zero.
// LastResetDate is a local calendar day in time.DateOnly form, or empty
// before the first reset.
type QuotaState struct {
	Remaining     int
	LastResetDate string
}

// EmotionLabel classifies an integer sentiment score.
type EmotionLabel string

// Emotion labels, ordered from most to least positive.
const (
	EmotionVeryPositive EmotionLabel = "very positive"
	EmotionPositive     EmotionLabel = "positive"
	EmotionNeutral      EmotionLabel = "neutral"
	EmotionNegative     EmotionLabel = "negative"
	EmotionVeryNegative EmotionLabel = "very negative"
)

// LabelForScore maps a lexicon score to its emotion label.
// The boundaries are fixed: a score of exactly 0 is neutral, exactly 2 is
// still positive, and exactly -2 is still negative.
func LabelForScore(score int) EmotionLabel {
	switch {
	case score > 2:
		return EmotionVeryPositive
	case score > 0:
		return EmotionPositive
	case score == 0:
		return EmotionNeutral
	case score < -2:
		return EmotionVeryNegative
	default:
		return EmotionNegative
	}
}

// Signals are the search inputs derived from one piece of user text.
// They are transient - computed per request and never persisted as-is.
type Signals struct {
	SentimentScore int
	EmotionLabel   EmotionLabel
	Keywords       []string
}

// Insight is the outcome of one completed orchestration cycle.
type Insight struct {
	Quote   *Quote
	Signals Signals

	// SearchTags is the ordered tag set actually sent to the provider:
	// keywords plus the lower-cased role when one is set.
	SearchTags []string

	// FromFallback reports whether the quote came from the unconditional
	// random tier rather than the tag-filtered search.
	FromFallback bool

	// Remaining is the quota left after this request completed.
	Remaining int
}

// AnonymousUser is the identity assigned to requests that carry no
// authenticated subject. Anonymous interactions are never written to
// history.
const AnonymousUser = "anonymous"

// Roles a user can select during onboarding. The role, lower-cased, joins
// the tag filter for quote search.
var Roles = []string{
	"Student", "Professional", "Athlete", "Creative",
	"Entrepreneur", "Parent", "Partner", "General User",
}

// ValidRole reports whether role is empty or one of the known roles.
func ValidRole(role string) bool {
	if role == "" {
		return true
	}
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Preferences are the persisted per-user settings the orchestrator consumes.
type Preferences struct {
	// Role tailors the tag filter; empty means no role selected.
	Role string

	// ConsentGiven controls whether raw input text may reach storage.
	ConsentGiven bool
}

// HistoryEntry is one appended record of a completed interaction.
// Entries are append-only; retention and deletion are external concerns.
type HistoryEntry struct {
	UserID         string
	Timestamp      time.Time
	Role           string
	SentimentScore int
	EmotionLabel   EmotionLabel
	QuoteText      string
	QuoteAuthor    string
	KeywordsUsed   []string

	// InputText holds the raw user text only when consent was given at
	// build time. See NewHistoryEntry.
	InputText string

	// HasInputText distinguishes "consented, empty input" from "withheld".
	HasInputText bool
}

// NewHistoryEntry builds an entry for a completed interaction.
// keywordsUsed is the ordered tag set that was sent to the provider, role
// included. The raw input is included only when consent is true; without
// consent the sensitive value never enters the entry, rather than being
// stripped later.
func NewHistoryEntry(userID, role, input string, consent bool, sig Signals, keywordsUsed []string, quote *Quote) *HistoryEntry {
	e := &HistoryEntry{
		UserID:         userID,
		Role:           role,
		SentimentScore: sig.SentimentScore,
		EmotionLabel:   sig.EmotionLabel,
		QuoteText:      quote.Text,
		QuoteAuthor:    quote.Author,
		KeywordsUsed:   keywordsUsed,
	}
	if consent {
		e.InputText = input
		e.HasInputText = true
	}
	return e
}
