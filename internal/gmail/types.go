// internal/gmail/types.go
package gmail

type MessageID string

// MessageRef identifies one message in a search result.
type MessageRef struct {
	ID       MessageID
	ThreadID string
}

// Message is the decoded, provider-agnostic form of one email. Body holds
// every text part concatenated, with markup stripped from HTML parts.
type Message struct {
	ID       MessageID
	ThreadID string
	From     string
	To       string
	Subject  string
	Date     string
	Body     string
}

// Profile describes the authenticated mailbox.
type Profile struct {
	EmailAddress  string
	MessagesTotal int64
	ThreadsTotal  int64
}

type Query struct {
	Raw string // Gmail query string, already formed (e.g., `from:openai.com newer_than:1h`)
}
