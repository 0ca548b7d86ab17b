package app

import (
	"context"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/features/pokemon"
)

// Component is the built app feature. Beyond API it hands the full set of
// use cases to code inside the feature.
type Component struct {
	deps Dependencies
}

var _ API = (*Component)(nil)

func (c *Component) Session(ctx context.Context) (datastore.Session, error) {
	s, err := c.deps.DataStore.Session(ctx)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return datastore.Session{}, errors.Unauthorized("")
		}
		return datastore.Session{}, err
	}
	if _, err := c.deps.LoginRegister.Authenticate(ctx, s.Token); err != nil {
		return datastore.Session{}, err
	}
	return s, nil
}

func (c *Component) Pokedex(ctx context.Context) ([]pokemon.ShortPokemon, error) {
	return c.deps.GetOwnedPokemonShort.Execute(ctx)
}

// Deps returns every use case the feature was built with.
func (c *Component) Deps() Dependencies { return c.deps }
