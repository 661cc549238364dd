// Package extract pulls 6-digit verification codes out of email text.
package extract

import (
	"regexp"
	"strings"
)

// rule pairs a compiled pattern with the capture group holding the code.
type rule struct {
	re    *regexp.Regexp
	group int
}

// rules is a priority list: the first rule matching anywhere in the text
// wins. The context-free 6-digit fallback sits last; any stray 6-digit
// number in a body still trips it, a known limit of the heuristic.
var rules = []rule{
	{regexp.MustCompile(`(?i)Your ChatGPT code is (\d{6})`), 1},
	{regexp.MustCompile(`(?i)验证码[：:]\s*(\d{6})`), 1},
	{regexp.MustCompile(`(?i)verification code[：:]\s*(\d{6})`), 1},
	{regexp.MustCompile(`(?i)code[：:]\s*(\d{6})`), 1},
	{regexp.MustCompile(`(?i)(\d{6})\s*is your`), 1},
	{regexp.MustCompile(`(?i)your code is\s*(\d{6})`), 1},
	{regexp.MustCompile(`(?i)代码为\s*(\d{6})`), 1},
	{regexp.MustCompile(`\b(\d{6})\b`), 1},
}

// Code scans text for a verification code. When targetEmail is non-empty the
// text must mention the address or its local-part verbatim, which keeps a
// shared or forwarded thread from leaking another recipient's code.
func Code(text, targetEmail string) (string, bool) {
	if targetEmail != "" {
		username, _, _ := strings.Cut(targetEmail, "@")
		if !strings.Contains(text, targetEmail) && !strings.Contains(text, username) {
			return "", false
		}
	}
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return m[r.group], true
		}
	}
	return "", false
}
