// Package auth owns the OAuth token lifecycle for mailbox access: load the
// cached token, refresh it when expired, fall back to an interactive grant,
// and write the result back to the token file.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// ErrNoCredentials means the OAuth client-secret descriptor is missing, so
// neither refresh nor an interactive grant can be attempted.
var ErrNoCredentials = errors.New("auth: credentials file missing")

// Grantor performs the interactive consent step that yields a fresh token.
// It is injected so server deployments can refuse it and tests can fake it.
type Grantor interface {
	Grant(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

type Manager struct {
	CredentialsFile string
	TokenFile       string
	Scopes          []string
	Grantor         Grantor
	Log             *slog.Logger
}

func NewManager(credentialsFile, tokenFile string, grantor Grantor, log *slog.Logger) *Manager {
	return &Manager{
		CredentialsFile: credentialsFile,
		TokenFile:       tokenFile,
		Scopes:          []string{gmailapi.GmailReadonlyScope},
		Grantor:         grantor,
		Log:             log,
	}
}

// Obtain returns a token source backed by a valid token: the cached one when
// still good, a refreshed one when expired, or a freshly granted one when no
// usable token exists. Refreshed and granted tokens are persisted before
// returning, so a restart picks them up without another grant.
func (m *Manager) Obtain(ctx context.Context) (oauth2.TokenSource, error) {
	cfg, cfgErr := m.loadConfig()

	tok := m.loadToken()
	fresh := false

	if tok != nil && !tok.Valid() {
		if cfg != nil && tok.RefreshToken != "" {
			refreshed, err := cfg.TokenSource(ctx, tok).Token()
			if err != nil {
				m.Log.Warn("token refresh failed", "error", err)
				tok = nil
			} else {
				m.Log.Info("access token refreshed")
				tok = refreshed
				fresh = true
			}
		} else {
			tok = nil
		}
	}

	if tok == nil {
		if cfg == nil {
			return nil, cfgErr
		}
		granted, err := m.Grantor.Grant(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("auth: interactive grant: %w", err)
		}
		m.Log.Info("authorization granted")
		tok = granted
		fresh = true
	}

	if fresh {
		if err := m.saveToken(tok); err != nil {
			return nil, err
		}
	}

	if cfg != nil {
		return cfg.TokenSource(ctx, tok), nil
	}
	return oauth2.StaticTokenSource(tok), nil
}

func (m *Manager) loadConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(m.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCredentials, m.CredentialsFile)
		}
		return nil, fmt.Errorf("auth: read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, m.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse credentials: %w", err)
	}
	return cfg, nil
}

// loadToken returns nil for a missing or unreadable token file; both cases
// fall through to refresh/grant.
func (m *Manager) loadToken() *oauth2.Token {
	b, err := os.ReadFile(m.TokenFile)
	if err != nil {
		return nil
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		m.Log.Warn("token file unreadable", "path", m.TokenFile, "error", err)
		return nil
	}
	return &tok
}

func (m *Manager) saveToken(tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("auth: encode token: %w", err)
	}
	if err := os.WriteFile(m.TokenFile, b, 0o600); err != nil {
		return fmt.Errorf("auth: write token: %w", err)
	}
	return nil
}
