// Package config loads the sparq configuration with Viper.
//
// Configuration is resolved from, in increasing precedence: built-in
// defaults, a sparq.toml file discovered by walking up from the working
// directory, and SPARQ_* environment variables.
package config

// Config represents the sparq configuration
type Config struct {
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Query    QueryConfig    `mapstructure:"query"`
}

// EndpointConfig configures the remote SPARQL service
type EndpointConfig struct {
	URL                  string `mapstructure:"url"`                     // SPARQL endpoint URL
	TimeoutSeconds       int    `mapstructure:"timeout_seconds"`         // HTTP request timeout (default: 30)
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"` // 0 = unlimited
}

// QueryConfig configures query execution behavior
type QueryConfig struct {
	Debug bool `mapstructure:"debug"` // log queries, services and extracted bindings
}
