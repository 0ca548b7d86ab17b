package main

import (
	"fmt"
	"time"

	"github.com/kbukum/featurekit/config"
	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/redis"
	"github.com/kbukum/featurekit/server"
)

// Config is the pokebase configuration.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Auth      AuthConfig      `mapstructure:"auth"`
	DataStore DataStoreConfig `mapstructure:"datastore"`
	Database  database.Config `mapstructure:"database"`
	Redis     redis.Config    `mapstructure:"redis"`
	HTTP      server.Config   `mapstructure:"http"`
}

// AuthConfig feeds the login feature.
type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// DataStoreConfig feeds the datastore feature.
type DataStoreConfig struct {
	Namespace string `mapstructure:"namespace"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "pokebase"
	}
	c.ServiceConfig.ApplyDefaults()
	if c.DataStore.Namespace == "" {
		c.DataStore.Namespace = c.Name
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = time.Hour
	}
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.HTTP.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if len(c.Auth.Secret) < 16 {
		return fmt.Errorf("auth.secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be positive (got: %s)", c.Auth.TokenTTL)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	return c.HTTP.Validate()
}
