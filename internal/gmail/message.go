// internal/gmail/message.go — full-format API message to Message conversion
package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// decodeMessage flattens a full-format API message. Header names match
// case-insensitively and the first occurrence wins; absent headers stay "".
func decodeMessage(msg *gmailapi.Message) *Message {
	out := &Message{ID: MessageID(msg.Id), ThreadID: msg.ThreadId}
	if msg.Payload == nil {
		return out
	}
	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			if out.From == "" {
				out.From = h.Value
			}
		case "to":
			if out.To == "" {
				out.To = h.Value
			}
		case "subject":
			if out.Subject == "" {
				out.Subject = h.Value
			}
		case "date":
			if out.Date == "" {
				out.Date = h.Value
			}
		}
	}
	out.Body = decodeBody(msg.Payload)
	return out
}

// decodeBody walks the part tree. A payload with sub-parts contributes the
// decoded text of each of them; a leaf payload is treated as a single part.
func decodeBody(part *gmailapi.MessagePart) string {
	if part == nil {
		return ""
	}
	if len(part.Parts) > 0 {
		var b strings.Builder
		for _, p := range part.Parts {
			b.WriteString(decodeBody(p))
		}
		return b.String()
	}
	return decodePart(part)
}

func decodePart(part *gmailapi.MessagePart) string {
	if part.Body == nil || part.Body.Data == "" {
		return ""
	}
	switch part.MimeType {
	case "text/plain":
		return decodeData(part.Body.Data)
	case "text/html":
		return htmlTag.ReplaceAllString(decodeData(part.Body.Data), "")
	}
	return ""
}

// decodeData is URL-safe base64 with lossy UTF-8: invalid byte sequences are
// dropped rather than failing the whole message.
func decodeData(data string) string {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(raw), "")
}
