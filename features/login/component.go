package login

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Component is the built login feature.
type Component struct {
	useCase *loginRegister
}

var _ API = (*Component)(nil)

func newComponent(deps Dependencies) (*Component, error) {
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d (got: %d)", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	var users userStore = newMemoryUsers()
	if deps.DB != nil {
		sqlUsers, err := newSQLUsers(deps.DB)
		if err != nil {
			return nil, err
		}
		users = sqlUsers
	}

	return &Component{
		useCase: &loginRegister{
			store:  deps.DataStore,
			users:  users,
			tokens: newTokenIssuer(deps.Secret, ttl),
			cost:   cost,
		},
	}, nil
}

func (c *Component) LoginRegister() LoginRegisterUseCase { return c.useCase }

// Users returns the number of registered accounts.
func (c *Component) Users(ctx context.Context) (int, error) { return c.useCase.users.count(ctx) }
