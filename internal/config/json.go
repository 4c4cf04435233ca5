package config

import (
	"encoding/json"
	"os"

	"notevault/internal/flagx"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config after parsing; empty fields leave the
// previous value untouched.
type JSONConfig struct {
	DatabasePath string `json:"database_path"`
	LogLevel     string `json:"log_level"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c / -config flags (flagx.JSONConfigFlags);
// when no path is given the function returns without touching cfg. Read or
// unmarshal errors panic — configuration problems should stop startup.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
