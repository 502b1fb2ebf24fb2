package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/weegigs/wee-visitors-go/fetcher"
	"github.com/weegigs/wee-visitors-go/page"
)

// Config drives the visitors command. Values come from flags, then
// VISITORS_* environment variables, then defaults.
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	Target   string        `mapstructure:"target"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log-level"`
	Page     string        `mapstructure:"page"`
	Out      string        `mapstructure:"out"`
}

func Flags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("endpoint", fetcher.DefaultEndpoint, "visitor count endpoint")
	flags.String("target", page.CountElementID, "id of the element that displays the count")
	flags.Duration("timeout", 0, "request timeout, zero waits indefinitely")
	flags.String("log-level", "info", "log level")
	flags.String("page", "", "html page to render the count into")
	flags.String("out", "", "rendered page destination, stdout when empty")

	return flags
}

func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("VISITORS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must be set")
	}
	if c.Target == "" {
		return errors.New("target must be set")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be greater than or equal to 0")
	}
	if c.Page == "" {
		return errors.New("page must be set")
	}
	return nil
}
