package pokemon

import (
	"context"
	"time"

	"github.com/kbukum/featurekit/errors"
)

// Component is the built pokemon feature.
type Component struct {
	deps    Dependencies
	catalog *catalog
	owned   *ownedStore
	now     func() time.Time
}

var _ API = (*Component)(nil)

func newComponent(deps Dependencies) *Component {
	return &Component{
		deps:    deps,
		catalog: newCatalog(),
		owned:   newOwnedStore(),
		now:     time.Now,
	}
}

func (c *Component) GetOwnedPokemonShort() GetOwnedPokemonShortUseCase {
	return getOwnedPokemonShort{c}
}
func (c *Component) GetPokemonDetails() GetPokemonDetailsUseCase { return getPokemonDetails{c} }
func (c *Component) GetSpecies() GetSpeciesUseCase               { return getSpecies{c} }
func (c *Component) GetMoves() GetMovesUseCase                   { return getMoves{c} }
func (c *Component) AddPokemon() AddPokemonUseCase               { return addPokemon{c} }
func (c *Component) GetDamage() GetDamageUseCase                 { return getDamage{c} }

// OwnedCount is the number of owned pokemon across all users.
func (c *Component) OwnedCount() int { return c.owned.count() }

// currentUser resolves the signed-in user from the stored session.
func (c *Component) currentUser(ctx context.Context) (string, error) {
	s, err := c.deps.DataStore.Session(ctx)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return "", errors.Unauthorized("")
		}
		return "", err
	}
	return c.deps.Auth.Authenticate(ctx, s.Token)
}

func (c *Component) short(p OwnedPokemon) ShortPokemon {
	sp, _ := c.catalog.speciesByID(p.SpeciesID)
	name := p.Nickname
	if name == "" {
		name = sp.Name
	}
	return ShortPokemon{ID: p.ID, Name: name, Species: sp.Name, Level: p.Level, Types: sp.Types}
}
