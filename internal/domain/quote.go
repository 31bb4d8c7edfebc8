// Package domain contains core business entities and rules.
package domain

// Quote is a curated quotation resolved from the remote provider.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the provider-assigned identifier for this quote.
	ID string

	// Text is the body of the quotation.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Tags are the provider's categories for the quote.
	Tags []string
}

// IsZero reports whether the quote carries no usable content.
func (q *Quote) IsZero() bool {
	return q == nil || q.Text == ""
}
