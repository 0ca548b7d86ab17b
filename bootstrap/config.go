package bootstrap

import "github.com/kbukum/featurekit/config"

// Config is the constraint for application config types. Embedding
// config.ServiceConfig satisfies it through promoted methods:
//
//	type Config struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Auth AuthConfig      `mapstructure:"auth"`
//	}
//
//	app, err := bootstrap.NewApp[*Config](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
