package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Infernape3000/Tenacio/internal/adapters/clients"
	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// ShareRelay adapts the share surface to ports.ShareGateway. It hands the
// formatted message to a relay endpoint which presents the platform share
// sheet. The relay answers 409 when the user dismissed the sheet; that is
// an expected outcome and maps to domain.ErrShareCanceled.
type ShareRelay struct {
	BaseAdapter
}

var _ ports.ShareGateway = (*ShareRelay)(nil)

// NewShareRelay creates a share gateway adapter using the given HTTP client.
func NewShareRelay(client *clients.Client) *ShareRelay {
	return &ShareRelay{
		BaseAdapter: NewBaseAdapter(client, "share-relay"),
	}
}

// shareRequest is the relay's wire format.
type shareRequest struct {
	Message string `json:"message"`
}

// Share implements ports.ShareGateway.
func (r *ShareRelay) Share(ctx context.Context, message string) error {
	if err := ValidateRequired(message, "message"); err != nil {
		return err
	}

	payload, err := json.Marshal(shareRequest{Message: message})
	if err != nil {
		return fmt.Errorf("encoding share request: %w", err)
	}

	resp, err := r.Client().Post(ctx, "/v1/share", bytes.NewReader(payload))
	if err != nil {
		return MapHTTPError(nil, err, r.ServiceName(), "share quote", "")
	}

	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return domain.ErrShareCanceled
	case resp.StatusCode >= http.StatusBadRequest:
		return MapHTTPError(resp, nil, r.ServiceName(), "share quote", "")
	default:
		return nil
	}
}
