package extract

import "testing"

func TestCode(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		targetEmail string
		want        string
		wantOK      bool
	}{
		{
			name:   "chatgpt phrase",
			text:   "Your ChatGPT code is 482913",
			want:   "482913",
			wantOK: true,
		},
		{
			name:   "chatgpt phrase case insensitive",
			text:   "YOUR CHATGPT CODE IS 482913",
			want:   "482913",
			wantOK: true,
		},
		{
			name:   "labeled pattern outranks earlier bare number",
			text:   "order ref 999999 ... verification code: 118822",
			want:   "118822",
			wantOK: true,
		},
		{
			name:   "chinese label fullwidth colon",
			text:   "您的验证码：334455，请勿泄露",
			want:   "334455",
			wantOK: true,
		},
		{
			name:   "chinese phrase",
			text:   "登录代码为 990011",
			want:   "990011",
			wantOK: true,
		},
		{
			name:   "is your phrasing",
			text:   "273645 is your OpenAI verification thing",
			want:   "273645",
			wantOK: true,
		},
		{
			name:   "your code is phrasing",
			text:   "your code is 555123",
			want:   "555123",
			wantOK: true,
		},
		{
			name:   "bare six digit fallback",
			text:   "please enter 204060 to continue",
			want:   "204060",
			wantOK: true,
		},
		{
			name: "seven digits do not match the fallback",
			text: "tracking number 1234567",
		},
		{
			name: "no digits at all",
			text: "welcome aboard",
		},
		{
			name:        "target email present as full address",
			text:        "Hi bob@frust.example, your code is 775533",
			targetEmail: "bob@frust.example",
			want:        "775533",
			wantOK:      true,
		},
		{
			name:        "target email present as local part only",
			text:        "Hi bob, verification code: 775533",
			targetEmail: "bob@frust.example",
			want:        "775533",
			wantOK:      true,
		},
		{
			name:        "target email absent blocks extraction",
			text:        "Hello alice, verification code: 775533",
			targetEmail: "bob@frust.example",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Code(tc.text, tc.targetEmail)
			if ok != tc.wantOK {
				t.Fatalf("Code(%q, %q) ok = %v, want %v", tc.text, tc.targetEmail, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("Code(%q, %q) = %q, want %q", tc.text, tc.targetEmail, got, tc.want)
			}
		})
	}
}
