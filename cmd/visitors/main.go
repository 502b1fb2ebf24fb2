package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/weegigs/wee-visitors-go/fetcher"
	"github.com/weegigs/wee-visitors-go/internal/config"
	"github.com/weegigs/wee-visitors-go/page"
)

func logger(level string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, err
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(parsed).With().Timestamp().Logger(), nil
}

func load(path string) (*page.HTMLDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open page")
	}
	defer file.Close()

	return page.ParseHTML(file)
}

func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output")
	}

	return file, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// render runs the fetcher once against the page and writes the result. A
// failed fetch still writes the page unchanged.
func render(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	doc, err := load(cfg.Page)
	if err != nil {
		return err
	}

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}

	f := fetcher.New(cfg.Endpoint, fetcher.Logger(log), fetcher.Client(client), fetcher.Target(cfg.Target))
	f.Run(ctx, doc)

	out, err := output(cfg.Out)
	if err != nil {
		return err
	}

	if err := doc.Render(out); err != nil {
		out.Close()
		return errors.Wrap(err, "failed to render page")
	}

	return out.Close()
}

func run(args []string) error {
	flags := config.Flags("visitors")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	log, err := logger(cfg.LogLevel)
	if err != nil {
		return err
	}

	return render(context.Background(), cfg, &log)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log, _ := logger("info")
		log.Fatal().Err(err).Msg("visitors failed")
	}
}
