// Package yaml loads parsekit configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fwojciec/parsekit"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PARSEKIT_"

// Load reads the YAML file at path over parsekit.DefaultConfig, applies
// environment overrides and validates the result. An empty path loads the
// defaults. A nil getenv reads the process environment.
func Load(path string, getenv func(string) string) (*parsekit.Config, error) {
	if path == "" {
		return Parse(nil, getenv)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "read config file: %v", err)
	}
	return Parse(data, getenv)
}

// Parse decodes YAML data over the defaults, applies environment overrides
// and validates. Mappings merge into the defaults key by key; lists
// replace them.
func Parse(data []byte, getenv func(string) string) (*parsekit.Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := parsekit.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, parsekit.Errorf(parsekit.EINVALID, "parse config yaml: %v", err)
	}

	if err := applyEnvironmentOverrides(cfg, getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvironmentOverrides(cfg *parsekit.Config, getenv func(string) string) error {
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv(EnvPrefix + "SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(EnvPrefix + "ARTICLE_EXTRACTOR"); v != "" {
		cfg.Extraction.ArticleExtractor = v
	}
	if v := getenv(EnvPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return parsekit.Errorf(parsekit.EINVALID, "%sHTTP_TIMEOUT: %v", EnvPrefix, err)
		}
		cfg.HTTP.Timeout = d
	}
	if v := getenv(EnvPrefix + "HTTP_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return parsekit.Errorf(parsekit.EINVALID, "%sHTTP_MAX_ATTEMPTS: %v", EnvPrefix, err)
		}
		cfg.HTTP.MaxAttempts = n
	}
	if v := getenv(EnvPrefix + "RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return parsekit.Errorf(parsekit.EINVALID, "%sRATE_LIMIT_ENABLED: %v", EnvPrefix, err)
		}
		cfg.RateLimit.Enabled = b
	}
	return nil
}
