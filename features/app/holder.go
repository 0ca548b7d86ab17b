package app

import (
	"context"
	"sync"

	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/features/login"
	"github.com/kbukum/featurekit/features/pokemon"
	"github.com/kbukum/featurekit/injector"
)

// Dependencies is what the composition root provides.
type Dependencies struct {
	LoginRegister login.LoginRegisterUseCase `validate:"required"`
	DataStore     datastore.Repository       `validate:"required"`

	GetOwnedPokemonShort pokemon.GetOwnedPokemonShortUseCase `validate:"required"`
	GetMoves             pokemon.GetMovesUseCase             `validate:"required"`
	GetPokemonDetails    pokemon.GetPokemonDetailsUseCase    `validate:"required"`
	GetSpecies           pokemon.GetSpeciesUseCase           `validate:"required"`
	AddPokemon           pokemon.AddPokemonUseCase           `validate:"required"`
	GetDamage            pokemon.GetDamageUseCase            `validate:"required"`
}

// API is the public surface of the feature.
type API interface {
	// Session returns the signed-in session, UNAUTHORIZED when there is none.
	Session(ctx context.Context) (datastore.Session, error)
	// Pokedex lists the signed-in user's pokemon.
	Pokedex(ctx context.Context) ([]pokemon.ShortPokemon, error)
}

var holder = injector.NewDelegate[API, Dependencies, *Component](
	di.Names.App, initAndGet, injector.WithDependencyValidation(),
)

// Holder returns the feature holder.
func Holder() injector.ComponentHolder[API, Dependencies] { return holder }

// component is the full component for code inside the feature, such as
// the screens.
func component() (*Component, error) { return holder.ComponentImpl() }

// Entry returns the holder as a container entry.
func Entry() di.Entry { return entry{holder} }

type entry struct {
	*injector.Delegate[API, Dependencies, *Component]
}

func (entry) Reset() { Reset() }

var (
	instanceMu sync.Mutex
	instance   *Component
)

func initAndGet(deps Dependencies) (*Component, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Component{deps: deps}
	}
	return instance, nil
}

// Reset drops the built component and the dependency provider. Tests only.
func Reset() {
	holder.Reset()
	instanceMu.Lock()
	instance = nil
	instanceMu.Unlock()
}
