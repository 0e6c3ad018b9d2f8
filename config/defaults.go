package config

import (
	"github.com/spf13/viper"
)

// DefaultServiceURL is the SPARQL endpoint used when no endpoint is
// configured explicitly.
const DefaultServiceURL = "http://sparql.plantbreeding.nl:8080/sparql/"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Endpoint defaults
	v.SetDefault("endpoint.url", DefaultServiceURL)
	v.SetDefault("endpoint.timeout_seconds", 30)
	v.SetDefault("endpoint.max_requests_per_minute", 0) // unlimited

	// Query defaults
	v.SetDefault("query.debug", false)
}
