// internal/runtime — wires the credential manager and the Google API client.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"codemail/internal/auth"
	gc "codemail/internal/gmail"
)

// NewGmailClient obtains a valid token through the manager and returns a
// ready mailbox client.
func NewGmailClient(ctx context.Context, m *auth.Manager, log *slog.Logger) (gc.Client, error) {
	ts, err := m.Obtain(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return gc.NewGoogleAPIClient(svc, log), nil
}

func DefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
