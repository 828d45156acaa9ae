// Package config loads layered configuration for the al-chunker CLI: a
// YAML file on disk, overridden by a .env file, overridden by whatever the
// caller (typically cobra flags) supplies last.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

// Config is the fully resolved set of options the CLI runs with.
type Config struct {
	Chunking core.ChunkingConfig `yaml:"chunking"`

	// Include/Exclude are glob patterns passed to discovery.Scope.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// CacheDSN is either a local file path or a libsql:// / https://
	// remote DSN; see store.IsRemoteDSN.
	CacheDSN string `yaml:"cache_dsn"`

	// OutputFormat is "json" or "jsonl".
	OutputFormat string `yaml:"output_format"`

	Debug bool `yaml:"debug"`
}

// Default returns the built-in defaults: core.DefaultChunkingConfig, AL
// files everywhere, no excludes, a local cache under the XDG data
// directory, and JSONL output.
func Default() Config {
	return Config{
		Chunking:     core.DefaultChunkingConfig(),
		Include:      []string{"**/*.al"},
		OutputFormat: "jsonl",
		CacheDSN:     filepath.Join(xdg.DataHome, "al-chunker", "cache.db"),
	}
}

// Load resolves configuration in three layers, each overriding the
// previous only for the keys it sets (a key set to a zero value such as
// false or 0 still overrides): built-in defaults, a YAML
// file at path (skipped silently if it doesn't exist), then environment
// variables loaded from envFile via godotenv (also optional).
//
// path and envFile may be empty, in which case DefaultConfigPath and a
// ".env" file in the working directory are used, respectively.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	if err := mergeYAMLFile(&cfg, path); err != nil {
		return Config{}, err
	}

	if envFile == "" {
		envFile = ".env"
	}
	if err := mergeEnvFile(&cfg, envFile); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DefaultConfigPath returns the XDG-resolved path al-chunker looks for its
// YAML config at when none is given explicitly.
func DefaultConfigPath() string {
	p, err := xdg.ConfigFile("al-chunker/config.yaml")
	if err != nil {
		return "al-chunker.yaml"
	}
	return p
}

func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "config: read %s", path)
	}

	fileCfg := *cfg
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return errors.Wrapf(err, "config: parse %s", path)
	}

	*cfg = fileCfg
	return nil
}

func mergeEnvFile(cfg *Config, envFile string) error {
	vars, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "config: read %s", envFile)
	}

	if v, ok := vars["AL_CHUNKER_MAX_CHUNK_CHARS"]; ok {
		if n, perr := strconv.Atoi(v); perr == nil {
			cfg.Chunking.MaxChunkChars = n
		}
	}
	if v, ok := vars["AL_CHUNKER_MIN_CHUNK_CHARS"]; ok {
		if n, perr := strconv.Atoi(v); perr == nil {
			cfg.Chunking.MinChunkChars = n
		}
	}
	if v, ok := vars["AL_CHUNKER_CACHE_DSN"]; ok && v != "" {
		cfg.CacheDSN = v
	}
	if v, ok := vars["AL_CHUNKER_OUTPUT_FORMAT"]; ok && v != "" {
		cfg.OutputFormat = v
	}
	if v, ok := vars["AL_CHUNKER_DEBUG"]; ok {
		if b, perr := strconv.ParseBool(v); perr == nil {
			cfg.Debug = b
		}
	}

	return nil
}
