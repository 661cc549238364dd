package gmail

import "context"

// Client is the narrow Gmail surface required by codemail.
//
// Search and Get absorb transport failures: a provider error is logged and
// comes back as an empty slice / nil message, so a scan over many candidate
// messages is never aborted by one bad call. Profile keeps its error because
// the connection test reports the reason to the caller.
type Client interface {
	Search(ctx context.Context, q Query, maxResults int64) []MessageRef
	Get(ctx context.Context, id MessageID) *Message
	Profile(ctx context.Context) (Profile, error)
}
