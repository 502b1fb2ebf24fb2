package main

import (
	"context"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/weegigs/wee-visitors-go/connectors/wvhttp"
	"github.com/weegigs/wee-visitors-go/telemetry"
	"github.com/weegigs/wee-visitors-go/visits"
)

func counter(ctx context.Context, store string) (visits.Counter, error) {
	switch store {
	case "live":
		return live(ctx)
	case "local":
		return local(ctx)
	case "memory":
		return visits.NewMemoryCounter(), nil
	default:
		return nil, errors.Errorf("unknown visitor store %q, expected memory, local or live", store)
	}
}

func run() error {
	store := pflag.String("store", "memory", "visitor store: memory, local or live")
	pflag.Parse()

	ctx := context.Background()

	provider, err := telemetry.Install(ctx, telemetry.LiveSettings("visitors-server"))
	if err != nil {
		return err
	}
	defer provider.Shutdown(ctx)

	service, err := counter(ctx, *store)
	if err != nil {
		log.Error().Err(err).Str("store", *store).Msg("failed to configure visitor store")
		return err
	}

	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	handler := wvhttp.NewHandler(service, wvhttp.Logger(&log.Logger), wvhttp.AllowedOrigin(origin))

	address := os.Getenv("LISTEN_ADDRESS")
	if address == "" {
		address = ":9080"
	}

	log.Info().Str("address", address).Str("store", *store).Msg("listening")
	return http.ListenAndServe(address, withLogging(handler))
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
