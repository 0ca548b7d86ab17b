package pokemon

import (
	"sync"

	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/features/login"
	"github.com/kbukum/featurekit/injector"
)

// Dependencies is what the composition root provides.
type Dependencies struct {
	Auth      login.LoginRegisterUseCase `validate:"required"`
	DataStore datastore.Repository       `validate:"required"`
}

// API is the public surface of the feature: one use case per operation.
type API interface {
	GetOwnedPokemonShort() GetOwnedPokemonShortUseCase
	GetPokemonDetails() GetPokemonDetailsUseCase
	GetSpecies() GetSpeciesUseCase
	GetMoves() GetMovesUseCase
	AddPokemon() AddPokemonUseCase
	GetDamage() GetDamageUseCase
}

var holder = injector.NewDelegate[API, Dependencies, *Component](
	di.Names.Pokemon, initAndGet, injector.WithDependencyValidation(),
)

// Holder returns the feature holder.
func Holder() injector.ComponentHolder[API, Dependencies] { return holder }

// component exposes the full component to this package's tests.
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
		instance = newComponent(deps)
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
