// internal/fetch/service.go
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codemail/internal/extract"
	"codemail/internal/gmail"
)

// DefaultSenderDomain is where the sign-up verification mail comes from.
const DefaultSenderDomain = "openai.com"

const maxSearchResults = 10

// ErrNotInitialized means no authenticated mailbox client is available.
var ErrNotInitialized = errors.New("fetch: gmail client not initialized")

// Service scans recent mail from the sender domain for verification codes.
type Service struct {
	Client       gmail.Client
	Log          *slog.Logger
	SenderDomain string
}

func NewService(client gmail.Client, log *slog.Logger) *Service {
	return &Service{Client: client, Log: log, SenderDomain: DefaultSenderDomain}
}

// FetchCode returns the first verification code found in mail from the
// sender domain within the last hoursBack hours. Not finding one is a normal
// outcome and comes back as ("", nil); only a missing client is an error.
func (s *Service) FetchCode(ctx context.Context, targetEmail string, hoursBack int) (string, error) {
	if s.Client == nil {
		return "", ErrNotInitialized
	}
	if hoursBack <= 0 {
		hoursBack = 1
	}

	// The sender check below compares lowercased strings; fold the domain
	// once so a mixed-case configuration still matches.
	domain := strings.ToLower(s.SenderDomain)

	parts := []string{
		fmt.Sprintf("from:%s", domain),
		fmt.Sprintf("newer_than:%dh", hoursBack),
	}
	if targetEmail != "" {
		username, _, _ := strings.Cut(targetEmail, "@")
		parts = append(parts, fmt.Sprintf("(%s OR %s)", targetEmail, username))
	}
	q := gmail.Query{Raw: strings.Join(parts, " ")}
	s.Log.Info("searching for verification mail", "query", q.Raw)

	refs := s.Client.Search(ctx, q, maxSearchResults)
	if len(refs) == 0 {
		s.Log.Info("no messages found", "query", q.Raw)
		return "", nil
	}

	// Provider order is trusted as most-recent-first; stop at the first hit.
	for _, ref := range refs {
		msg := s.Client.Get(ctx, ref.ID)
		if msg == nil {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.From), domain) {
			s.Log.Debug("skipping message from unexpected sender", "from", msg.From)
			continue
		}
		blob := msg.Subject + " " + msg.Body + " " + msg.To
		if code, ok := extract.Code(blob, targetEmail); ok {
			s.Log.Info("verification code found", "id", string(msg.ID), "subject", msg.Subject)
			return code, nil
		}
	}

	s.Log.Info("no verification code in recent mail", "checked", len(refs))
	return "", nil
}
