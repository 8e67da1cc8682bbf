// This command is only used for local testing: it builds an SDK client from
// the environment, reports the token manager state, and runs a single catalog
// search, printing the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/partnerlink/partnerlink-go"
	"github.com/partnerlink/partnerlink-go/catalog"
	"github.com/partnerlink/partnerlink-go/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

type utilConfig struct {
	Keywords    string `env:"UTIL_KEYWORDS, default=usb-c cable"`
	SearchIndex string `env:"UTIL_SEARCH_INDEX"`
}

func main() {
	configureLogging()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "plget: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	util := utilConfig{}
	if err := envconfig.Process(ctx, &util); err != nil {
		return fmt.Errorf("reading util config: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	client, err := partnerlink.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("client construction failed: %w", err)
	}
	defer client.Close()

	if _, err := client.Token(ctx); err != nil {
		return fmt.Errorf("token acquisition failed: %w", err)
	}

	status := client.AuthStatus()
	log.Info().
		Bool("valid", status.Valid).
		Time("expires_at", status.ExpiresAt).
		Int64("remaining_seconds", status.RemainingSeconds).
		Bool("shared_cache", status.SharedCache).
		Msg("token acquired")

	result, err := client.Catalog.SearchItems(ctx, catalog.SearchItemsRequest{
		Keywords:    util.Keywords,
		SearchIndex: util.SearchIndex,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	fmt.Printf("%s\n", out)
	return nil
}

func configureLogging() {
	log.Logger = log.Level(zerolog.InfoLevel)

	if os.Getenv("ENV") == "development" {
		log.Logger = log.
			Output(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel)
	}
}
