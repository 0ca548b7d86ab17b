package login

import (
	"sync"
	"time"

	"github.com/kbukum/featurekit/database"
	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/features/datastore"
	"github.com/kbukum/featurekit/injector"
)

// Dependencies is what the composition root provides.
type Dependencies struct {
	DataStore datastore.Repository `validate:"required"`
	Secret    string               `validate:"required,min=16"`
	// TokenTTL defaults to one hour.
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// DB persists accounts when set; otherwise they live in memory.
	DB *database.DB
}

// API is the public surface of the feature.
type API interface {
	LoginRegister() LoginRegisterUseCase
}

var holder = injector.NewDelegate[API, Dependencies, *Component](
	di.Names.Login, initAndGet, injector.WithDependencyValidation(),
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
	if instance != nil {
		return instance, nil
	}
	c, err := newComponent(deps)
	if err != nil {
		return nil, err
	}
	instance = c
	return instance, nil
}

// Reset drops the built component and the dependency provider. Tests only.
func Reset() {
	holder.Reset()
	instanceMu.Lock()
	instance = nil
	instanceMu.Unlock()
}
