package config

import "os"

// parseEnv overlays deployment-sensitive values from the environment. Only
// the values an operator would inject through the container environment are
// supported; everything else goes through the JSON file or flags.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ENDPOINT_ADDR"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
}
