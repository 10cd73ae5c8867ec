package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/nuts-foundation/charm-calculator/cmd/core"
	"github.com/nuts-foundation/charm-calculator/component/charm"
	"github.com/nuts-foundation/charm-calculator/component/http"
	"github.com/nuts-foundation/charm-calculator/component/tracing"
	pkgerrors "github.com/pkg/errors"
)

// DefaultConfigFile is read when present, relative to the working directory.
const DefaultConfigFile = "config/charm.yml"

// EnvPrefix is the prefix of environment variables that override configuration,
// e.g. CHARM_CHARM_FHIR_TIMEOUT sets charm.fhir.timeout.
const EnvPrefix = "CHARM_"

type Config struct {
	Core    core.Config    `koanf:"core"`
	HTTP    http.Config    `koanf:"http"`
	Charm   charm.Config   `koanf:"charm"`
	Tracing tracing.Config `koanf:"tracing"`
}

func DefaultConfig() Config {
	return Config{
		Core:    core.DefaultConfig(),
		HTTP:    http.DefaultConfig(),
		Charm:   charm.DefaultConfig(),
		Tracing: tracing.DefaultConfig(),
	}
}

// LoadConfig loads the configuration from DefaultConfigFile and the environment.
func LoadConfig() (Config, error) {
	return LoadConfigFile(DefaultConfigFile)
}

// LoadConfigFile loads the configuration: defaults, then the given YAML file (if it exists), then environment variables.
func LoadConfigFile(configFile string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to load default config")
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
				return Config{}, pkgerrors.Wrapf(err, "failed to load config file %s", configFile)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, pkgerrors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to load config from environment")
	}

	var config Config
	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to parse config")
	}
	return config, nil
}
