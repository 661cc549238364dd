package gmail

import (
	"encoding/base64"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func textPart(mimeType, content string) *gmailapi.MessagePart {
	return &gmailapi.MessagePart{
		MimeType: mimeType,
		Body:     &gmailapi.MessagePartBody{Data: b64(content)},
	}
}

func TestDecodeMessageHeaders(t *testing.T) {
	msg := &gmailapi.Message{
		Id:       "m1",
		ThreadId: "t1",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "FROM", Value: "OpenAI <noreply@tm.openai.com>"},
				{Name: "From", Value: "second@example.com"},
				{Name: "To", Value: "user@example.com"},
				{Name: "subject", Value: "Your code"},
				{Name: "Date", Value: "Mon, 01 Sep 2025 10:00:00 +0000"},
			},
		},
	}

	got := decodeMessage(msg)
	if got.ID != "m1" || got.ThreadID != "t1" {
		t.Fatalf("ids: got %q/%q", got.ID, got.ThreadID)
	}
	if got.From != "OpenAI <noreply@tm.openai.com>" {
		t.Errorf("first From occurrence must win; got %q", got.From)
	}
	if got.To != "user@example.com" || got.Subject != "Your code" {
		t.Errorf("to/subject: got %q / %q", got.To, got.Subject)
	}
	if got.Date == "" {
		t.Errorf("date header lost")
	}
}

func TestDecodeMessageMissingHeaders(t *testing.T) {
	msg := &gmailapi.Message{Id: "m2", Payload: &gmailapi.MessagePart{}}
	got := decodeMessage(msg)
	if got.From != "" || got.To != "" || got.Subject != "" || got.Date != "" {
		t.Fatalf("absent headers must stay empty: %+v", got)
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmailapi.MessagePart
		want    string
	}{
		{
			name: "multipart plain and html",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					textPart("text/plain", "plain body. "),
					textPart("text/html", "<p>Your code is <b>123456</b></p>"),
				},
			},
			want: "plain body. Your code is 123456",
		},
		{
			name: "nested multipart",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmailapi.MessagePart{
							textPart("text/plain", "inner"),
						},
					},
				},
			},
			want: "inner",
		},
		{
			name:    "single html payload",
			payload: textPart("text/html", "<div>hello</div>"),
			want:    "hello",
		},
		{
			name:    "non-text part ignored",
			payload: textPart("application/pdf", "binary"),
			want:    "",
		},
		{
			name: "undecodable data contributes nothing",
			payload: &gmailapi.MessagePart{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: "!!!not base64!!!"},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got := decodeBody(tc.payload)
			if got != tc.want {
				t.Fatalf("decodeBody = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeDataDropsInvalidUTF8(t *testing.T) {
	data := base64.RawURLEncoding.EncodeToString([]byte{'o', 'k', 0xff, 0xfe, '!'})
	if got := decodeData(data); got != "ok!" {
		t.Fatalf("invalid bytes must be dropped: got %q", got)
	}
}

func TestDecodeDataAcceptsPadding(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("hi"))
	if got := decodeData(padded); got != "hi" {
		t.Fatalf("padded input: got %q", got)
	}
}
