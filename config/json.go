package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sessionworks/legacyauth/internal/flagx"
	"github.com/sessionworks/legacyauth/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "12h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN           string         `json:"database_dsn"`
	ClassicSessionSecret  string         `json:"classic_session_secret"`
	SessionDuration       timex.Duration `json:"session_duration"`
	TokenSecret           string         `json:"token_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.ClassicSessionSecret = c.ClassicSessionSecret
	config.SessionDuration = time.Duration(c.SessionDuration.Duration)
	config.TokenSecret = c.TokenSecret
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
}
