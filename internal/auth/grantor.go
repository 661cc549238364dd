package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// DisabledGrantor refuses the interactive flow. Server deployments use it so
// a dead refresh token fails fast instead of waiting on a browser consent
// nobody can complete.
type DisabledGrantor struct{}

func (DisabledGrantor) Grant(_ context.Context, _ *oauth2.Config) (*oauth2.Token, error) {
	return nil, errors.New("interactive grant disabled; provision a valid token file")
}

// LocalServerGrantor runs the installed-app consent flow: listen on an
// ephemeral loopback port, print the consent URL for the user to open, and
// exchange the authorization code delivered to the callback.
type LocalServerGrantor struct {
	Out io.Writer // consent URL destination; defaults to os.Stderr
}

func (g LocalServerGrantor) Grant(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	defer ln.Close()

	redirect := *cfg
	redirect.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	out := g.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Open this URL in a browser to authorize mailbox access:\n%s\n",
		redirect.AuthCodeURL(state, oauth2.AccessTypeOffline))

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- errors.New("oauth callback state mismatch")
		case q.Get("error") != "":
			http.Error(w, q.Get("error"), http.StatusBadRequest)
			errCh <- fmt.Errorf("consent denied: %s", q.Get("error"))
		default:
			fmt.Fprintln(w, "Authorization complete. You can close this tab.")
			codeCh <- q.Get("code")
		}
	})}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case code := <-codeCh:
		return redirect.Exchange(ctx, code)
	}
}

func randomState() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
