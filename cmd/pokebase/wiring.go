package main

import (
	"context"
	"fmt"

	"github.com/kbukum/featurekit/bootstrap"
	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/di"
	appfeature "github.com/kbukum/featurekit/features/app"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/features/login"
	"github.com/kbukum/featurekit/features/pokemon"
	"github.com/kbukum/featurekit/redis"
)

// registerFeatures adds every feature in dependency order.
func registerFeatures(a *bootstrap.App[*Config]) error {
	for _, e := range []di.Entry{datastore.Entry(), login.Entry(), pokemon.Entry(), appfeature.Entry()} {
		if err := a.RegisterFeature(e); err != nil {
			return err
		}
	}
	return nil
}

// infra holds the optional infrastructure components; nil fields are disabled.
type infra struct {
	redis    *redis.Component
	database *database.Component
}

// installProviders connects the features. Each provider runs only when its
// feature is first built, so sibling holders are read lazily with MustGet.
// The config is the one NewApp registered in the container.
func installProviders(in infra) func(context.Context, *bootstrap.App[*Config]) error {
	return func(_ context.Context, a *bootstrap.App[*Config]) error {
		cfg, err := di.Resolve[*Config](a.Container, di.Names.Config)
		if err != nil {
			return err
		}
		setProviders(cfg, in)
		return nil
	}
}

func setProviders(cfg *Config, in infra) {
	datastore.Holder().SetDependencyProvider(func() datastore.Dependencies {
		deps := datastore.Dependencies{Namespace: cfg.DataStore.Namespace}
		if in.redis != nil {
			if deps.Redis = in.redis.Client(); deps.Redis == nil {
				panic(fmt.Errorf("datastore needs redis, but the redis component is not started"))
			}
		}
		return deps
	})

	login.Holder().SetDependencyProvider(func() login.Dependencies {
		deps := login.Dependencies{
			DataStore:  datastore.Holder().MustGet().Repository(),
			Secret:     cfg.Auth.Secret,
			TokenTTL:   cfg.Auth.TokenTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		}
		if in.database != nil {
			if deps.DB = in.database.DB(); deps.DB == nil {
				panic(fmt.Errorf("login needs the database, but the database component is not started"))
			}
		}
		return deps
	})

	pokemon.Holder().SetDependencyProvider(func() pokemon.Dependencies {
		return pokemon.Dependencies{
			Auth:      login.Holder().MustGet().LoginRegister(),
			DataStore: datastore.Holder().MustGet().Repository(),
		}
	})

	appfeature.Holder().SetDependencyProvider(func() appfeature.Dependencies {
		p := pokemon.Holder().MustGet()
		return appfeature.Dependencies{
			LoginRegister:        login.Holder().MustGet().LoginRegister(),
			DataStore:            datastore.Holder().MustGet().Repository(),
			GetOwnedPokemonShort: p.GetOwnedPokemonShort(),
			GetMoves:             p.GetMoves(),
			GetPokemonDetails:    p.GetPokemonDetails(),
			GetSpecies:           p.GetSpecies(),
			AddPokemon:           p.AddPokemon(),
			GetDamage:            p.GetDamage(),
		}
	})
}
