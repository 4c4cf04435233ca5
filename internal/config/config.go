package config

// Config holds runtime settings for the note vault CLI.
//
// Fields:
//   - DatabasePath: path (or DSN) of the local SQLite database file holding
//     the key-value store.
//   - LogLevel: minimum log level ("debug", "info", "warn", "error").
type Config struct {
	DatabasePath string
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "notevault.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
