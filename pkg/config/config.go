// Package config loads gvc's tool configuration from an optional .gvc.toml,
// GVC_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/httputil"
	"github.com/matzehuels/gvc/pkg/integrations"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/vcs"
)

const (
	// FileName is the config file name searched for, without extension.
	FileName = ".gvc"
	// EnvPrefix prefixes environment overrides, e.g. GVC_HTTP_TIMEOUT.
	EnvPrefix = "GVC"
)

// HTTP configures repository metadata requests.
type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
	Backoff time.Duration `mapstructure:"backoff"`
}

// Alias configures alias derivation for added entries.
type Alias struct {
	StripPrefixes []string `mapstructure:"strip_prefixes"`
}

// Repository is an extra repository appended after the scraped ones.
type Repository struct {
	Name    string   `mapstructure:"name"`
	URL     string   `mapstructure:"url"`
	Kind    string   `mapstructure:"kind"`
	Include []string `mapstructure:"include"`
}

// Commit configures the branch and commit made after an update.
type Commit struct {
	Message      string `mapstructure:"message"`
	BranchPrefix string `mapstructure:"branch_prefix"`
}

// Config holds all runtime configuration for one invocation.
type Config struct {
	StableOnly   bool         `mapstructure:"stable_only"`
	NoGit        bool         `mapstructure:"no_git"`
	HTTP         HTTP         `mapstructure:"http"`
	Alias        Alias        `mapstructure:"alias"`
	Repositories []Repository `mapstructure:"repositories"`
	Commit       Commit       `mapstructure:"commit"`
}

// New returns a viper instance with gvc's defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("stable_only", false)
	v.SetDefault("no_git", false)
	v.SetDefault("http.timeout", integrations.DefaultTimeout)
	v.SetDefault("http.retries", httputil.DefaultPolicy.Attempts)
	v.SetDefault("http.backoff", httputil.DefaultPolicy.Delay)
	v.SetDefault("alias.strip_prefixes", catalog.DefaultStripPrefixes)
	v.SetDefault("repositories", []map[string]any{})
	v.SetDefault("commit.message", vcs.DefaultMessage)
	v.SetDefault("commit.branch_prefix", vcs.DefaultBranchPrefix)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads file when set. Otherwise it searches dirs in order for
// .gvc.toml; finding none is not an error.
func ReadFile(v *viper.Viper, file string, dirs ...string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		for _, d := range dirs {
			if d != "" {
				v.AddConfigPath(d)
			}
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeValidation, err, "read config")
	}
	return nil
}

// Load decodes the merged configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeValidation, err, "decode config")
	}
	if cfg.HTTP.Timeout <= 0 {
		return Config{}, errors.New(errors.ErrCodeValidation, "http.timeout must be positive, got %s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.Retries < 1 {
		cfg.HTTP.Retries = 1
	}
	return cfg, nil
}

// RetryPolicy returns the retry policy for repository requests.
func (c Config) RetryPolicy() httputil.Policy {
	return httputil.Policy{Attempts: c.HTTP.Retries, Delay: c.HTTP.Backoff}
}

// Descriptors converts the configured extra repositories. A missing kind
// is inferred from the URL and a missing name defaults to the URL.
func (c Config) Descriptors() ([]repository.Descriptor, error) {
	out := make([]repository.Descriptor, 0, len(c.Repositories))
	for i, r := range c.Repositories {
		d, err := r.descriptor()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, err, "repositories[%d]", i)
		}
		out = append(out, d)
	}
	return out, nil
}

func (r Repository) descriptor() (repository.Descriptor, error) {
	kind := repository.KindForURL(r.URL)
	if r.Kind != "" {
		if err := kind.UnmarshalText([]byte(r.Kind)); err != nil {
			return repository.Descriptor{}, err
		}
	}
	name := r.Name
	if name == "" {
		name = r.URL
	}
	return repository.New(name, r.URL, kind, r.Include...)
}
