package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/weftlabs/weft-go/pkg/core/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

// Version is the version of the tooling, set at build time.
var Version string

// Config is the top-level configuration for the stash tooling.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// ApplicationConfiguration holds the stash database and logging settings.
type ApplicationConfiguration struct {
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
}

// LoadFile loads the config from the given path. Unknown keys are an error,
// a misspelt option should not silently fall back to a default.
func LoadFile(configPath string) (Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Config{
		ApplicationConfiguration: ApplicationConfiguration{
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.LevelDB,
			},
		},
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return config, nil
}
