package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"codemail/internal/auth"
	"codemail/internal/fetch"
	"codemail/internal/runtime"
	"codemail/internal/server"
)

type serverConfig struct {
	credentialsFile string
	tokenFile       string
	host            string
	port            int
	senderDomain    string
}

func main() {
	cfg := parseServerFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger().Error("codemail-server failed", "error", err)
		os.Exit(1)
	}
}

func parseServerFlags() serverConfig {
	credentials := flag.String("credentials", "credentials.json", "OAuth client secret file")
	token := flag.String("token", "token.json", "cached OAuth token file")
	host := flag.String("host", "0.0.0.0", "bind address (HOST env overrides)")
	port := flag.Int("port", 5000, "bind port (PORT env overrides)")
	senderDomain := flag.String("sender-domain", fetch.DefaultSenderDomain, "domain the verification mail comes from")
	flag.Parse()

	cfg := serverConfig{
		credentialsFile: *credentials,
		tokenFile:       *token,
		host:            *host,
		port:            *port,
		senderDomain:    *senderDomain,
	}
	if h := os.Getenv("HOST"); h != "" {
		cfg.host = h
	}
	if p := os.Getenv("PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			cfg.port = n
		}
	}
	return cfg
}

func run(cfg serverConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := runtime.DefaultLogger()

	// Server mode cannot complete a browser consent, so both auth files
	// must exist before we start taking requests.
	for _, f := range []string{cfg.credentialsFile, cfg.tokenFile} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("required auth file missing: %s", f)
		}
	}

	mgr := auth.NewManager(cfg.credentialsFile, cfg.tokenFile, auth.DisabledGrantor{}, log)
	client, err := runtime.NewGmailClient(ctx, mgr, log)
	if err != nil {
		return fmt.Errorf("init gmail client: %w", err)
	}

	fetcher := fetch.NewService(client, log)
	fetcher.SenderDomain = cfg.senderDomain

	srv := server.New(fetcher, client, log)
	addr := fmt.Sprintf("%s:%d", cfg.host, cfg.port)
	log.Info("codemail server listening", "addr", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve http: %w", err)
	}
	log.Info("codemail server stopped")
	return nil
}
