package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const SupportedSchema = "v1"

type ExtractorCfg struct {
	Kind       string `koanf:"kind"` // json_field|json_object|header
	KeyField   string `koanf:"key_field"`
	ValueField string `koanf:"value_field"`
	Header     string `koanf:"header"`
}

type LogCfg struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text|json|pretty
}

type Config struct {
	SchemaVersion string       `koanf:"schema_version"`
	EndpointURI   string       `koanf:"endpoint_uri"`
	Extractor     ExtractorCfg `koanf:"extractor"`

	Sink    string                    `koanf:"sink"`
	SinkRaw map[string]map[string]any `koanf:"sink_configs"`
	Metrics int                       `koanf:"metrics_port"`
	Log     LogCfg                    `koanf:"log"`
}

// Load merges YAML (if present) with env-vars: prefix `IGNITE_BRIDGE__`,
// `__` nests (IGNITE_BRIDGE__LOG__LEVEL becomes log.level).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("bridge schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	_ = k.Load(env.Provider("IGNITE_BRIDGE__", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "IGNITE_BRIDGE__")), "__", ".")
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.Sink == "" {
		c.Sink = "stdout"
	}
	if c.Extractor.Kind == "" {
		c.Extractor.Kind = "json_object"
	}
	if c.Metrics == 0 {
		c.Metrics = 9100
	}
}

// SinkConfig decodes the named sink_configs block into out, honoring the
// driver's yaml tags.
func (c Config) SinkConfig(name string, out any) error {
	raw, ok := c.SinkRaw[name]
	if !ok {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
