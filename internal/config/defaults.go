package config

// DefaultKankaBaseURL is the public Kanka API root.
const DefaultKankaBaseURL = "https://api.kanka.io/1.0"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 3030,
			Host: "localhost",
		},
		Kanka: KankaConfig{
			BaseURL: DefaultKankaBaseURL,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
