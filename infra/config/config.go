package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const path = "infra/config"

// Load decodes the config file into v, as yaml for .yaml/.yml files and as json otherwise.
func Load(file string, v interface{}) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not read config '%s': %w", file, err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	default:
		err = json.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("could not decode config '%s': %w", file, err)
	}

	log.Debug().Str("file", file).Msg("loaded config")
	return nil
}

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) []byte {

	file := fmt.Sprintf("%s/%s.json", path, key)
	b, err := os.ReadFile(file)
	if err != nil {
		panic(fmt.Sprintf("could not load config for %s: %s", key, err.Error()))
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		panic(fmt.Sprintf("could not unmarshal the config for %s: %s", key, err.Error()))
	}

	log.Info().Str("dataset", key).Msg("loaded default config")

	return b

}
