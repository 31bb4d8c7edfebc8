package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// ShareService formats the displayed quote and hands it to the platform
// share surface.
type ShareService struct {
	state   ports.StateStore
	gateway ports.ShareGateway
	logger  *slog.Logger
}

// NewShareService creates a share service over the state store and gateway.
func NewShareService(state ports.StateStore, gateway ports.ShareGateway, logger *slog.Logger) *ShareService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ShareService{
		state:   state,
		gateway: gateway,
		logger:  logger.With(slog.String("component", "app.ShareService")),
	}
}

// ShareCurrent shares the currently displayed quote as `"<text>" - <author>`
// and returns the formatted message. A user dismissing the share sheet is a
// normal outcome, not an error; only genuine delivery failures surface.
// Sharing with no quote displayed returns domain.ErrNotFound.
func (s *ShareService) ShareCurrent(ctx context.Context) (string, error) {
	text, err := s.state.Get(ctx, keyCurrentQuote)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.NewNotFoundError("current quote", "")
		}

		return "", err
	}

	author, err := s.state.Get(ctx, keyCurrentAuthor)
	if err != nil && !domain.IsNotFound(err) {
		return "", err
	}

	message := fmt.Sprintf("%q - %s", text, author)

	if err := s.gateway.Share(ctx, message); err != nil {
		if domain.IsShareCanceled(err) {
			s.logger.DebugContext(ctx, "share dismissed by user")

			return message, nil
		}

		return "", domain.NewShareError(err.Error())
	}

	return message, nil
}
