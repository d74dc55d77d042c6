package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// SETCACHE_CACHE__BUCKET=set-cache-prod.
const EnvPrefix = "SETCACHE"

// Loader hydrates the runtime configuration with env > file > default
// precedence.
type Loader struct {
	envPrefix string
	files     []string
}

// NewLoader prepares a loader. Files are optional; missing paths are an error
// so a typo in a deploy manifest fails loudly instead of silently running on
// defaults.
func NewLoader(files ...string) *Loader {
	return &Loader{envPrefix: EnvPrefix, files: files}
}

// Load assembles the effective configuration snapshot.
func (l *Loader) Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	for _, path := range l.files {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: file %s not found", path)
			}
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	transform := func(s string) string {
		// Double underscores signal a nested path
		// (CACHE__REDIS__ADDR -> cache.redis.addr).
		key := strings.TrimPrefix(s, l.envPrefix+"_")
		key = strings.ReplaceAll(key, "__", ".")
		return strings.ToLower(key)
	}
	if err := k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
