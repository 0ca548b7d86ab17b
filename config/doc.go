// Package config loads service configuration with viper.
//
// LoadConfig looks for cmd/<service>/config.yml, config/config.yml or
// config.yml, then a matching .env file, and lets environment variables
// override nested keys (LOGGING_LEVEL -> logging.level).
//
//	var cfg MyConfig
//	if err := config.LoadConfig("pokebase", &cfg, config.WithEnvPrefix("POKEBASE")); err != nil {
//	    return err
//	}
package config
