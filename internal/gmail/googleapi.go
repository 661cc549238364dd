// internal/gmail/googleapi.go — adapts *gmail.Service to our small interface
package gmail

import (
	"context"
	"log/slog"

	gmailapi "google.golang.org/api/gmail/v1"
)

type googleClient struct {
	svc *gmailapi.Service
	log *slog.Logger
}

func NewGoogleAPIClient(svc *gmailapi.Service, log *slog.Logger) Client {
	return &googleClient{svc: svc, log: log}
}

func (g *googleClient) Search(ctx context.Context, q Query, maxResults int64) []MessageRef {
	res, err := g.svc.Users.Messages.List("me").Q(q.Raw).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		g.log.Error("message search failed", "query", q.Raw, "error", err)
		return nil
	}
	refs := make([]MessageRef, 0, len(res.Messages))
	for _, m := range res.Messages {
		refs = append(refs, MessageRef{ID: MessageID(m.Id), ThreadID: m.ThreadId})
	}
	return refs
}

func (g *googleClient) Get(ctx context.Context, id MessageID) *Message {
	msg, err := g.svc.Users.Messages.Get("me", string(id)).Format("full").Context(ctx).Do()
	if err != nil {
		g.log.Error("message get failed", "id", string(id), "error", err)
		return nil
	}
	return decodeMessage(msg)
}

func (g *googleClient) Profile(ctx context.Context) (Profile, error) {
	p, err := g.svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		EmailAddress:  p.EmailAddress,
		MessagesTotal: p.MessagesTotal,
		ThreadsTotal:  p.ThreadsTotal,
	}, nil
}
