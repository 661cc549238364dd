package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codemail/internal/auth"
	"codemail/internal/fetch"
	"codemail/internal/runtime"
)

type fetchConfig struct {
	credentialsFile string
	tokenFile       string
	target          string
	hoursBack       int
	senderDomain    string
}

func main() {
	cfg := parseFetchFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger().Error("codemail-fetch failed", "error", err)
		os.Exit(1)
	}
}

func parseFetchFlags() fetchConfig {
	credentials := flag.String("credentials", "credentials.json", "OAuth client secret file")
	token := flag.String("token", "token.json", "cached OAuth token file")
	target := flag.String("target", "", "email address the code was sent to")
	hoursBack := flag.Int("hours-back", 1, "how many hours of mail to scan")
	senderDomain := flag.String("sender-domain", fetch.DefaultSenderDomain, "domain the verification mail comes from")
	flag.Parse()

	return fetchConfig{
		credentialsFile: *credentials,
		tokenFile:       *token,
		target:          *target,
		hoursBack:       *hoursBack,
		senderDomain:    *senderDomain,
	}
}

func run(cfg fetchConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := runtime.DefaultLogger()

	// Interactive mode: a missing or dead token falls back to the browser
	// consent flow and the fresh token lands in the token file.
	mgr := auth.NewManager(cfg.credentialsFile, cfg.tokenFile, auth.LocalServerGrantor{}, log)
	client, err := runtime.NewGmailClient(ctx, mgr, log)
	if err != nil {
		return fmt.Errorf("init gmail client: %w", err)
	}

	fetcher := fetch.NewService(client, log)
	fetcher.SenderDomain = cfg.senderDomain

	code, err := fetcher.FetchCode(ctx, cfg.target, cfg.hoursBack)
	if err != nil {
		return fmt.Errorf("fetch code: %w", err)
	}
	if code == "" {
		return fmt.Errorf("no verification code found in the last %dh", cfg.hoursBack)
	}

	fmt.Println(code)
	return nil
}
