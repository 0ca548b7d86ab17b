// Command pokebase runs the pokebase feature graph behind an introspection
// HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/featurekit/bootstrap"
	"github.com/kbukum/featurekit/config"
	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/redis"
	"github.com/kbukum/featurekit/server"
	"github.com/kbukum/featurekit/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search ./cmd/pokebase, ./config, .)")
	flag.Parse()

	if err := run(context.Background(), *configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	var cfg Config
	opts := []config.LoaderOption{config.WithEnvPrefix("POKEBASE")}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig("pokebase", &cfg, opts...); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := newApp(&cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func newApp(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	// StartAll runs in registration order; infrastructure must precede eager features.
	var in infra
	if cfg.Database.Enabled {
		in.database = database.NewComponent(cfg.Database, app.Logger)
		if err := app.RegisterComponent(in.database); err != nil {
			return nil, err
		}
	}
	if cfg.Redis.Enabled {
		in.redis = redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(in.redis); err != nil {
			return nil, err
		}
	}
	if err := registerFeatures(app); err != nil {
		return nil, err
	}
	app.OnConfigure(installProviders(in))

	if cfg.HTTP.Enabled {
		srv := server.New(cfg.HTTP, app.Logger)
		srv.RegisterIntrospection(cfg.Name, app.Components, app.Container)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return nil, err
		}
	}
	return app, nil
}
