package pokemon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/validation"
)

// GetOwnedPokemonShortUseCase lists the current user's collection.
type GetOwnedPokemonShortUseCase interface {
	Execute(ctx context.Context) ([]ShortPokemon, error)
}

// GetPokemonDetailsUseCase returns one pokemon of the current user.
type GetPokemonDetailsUseCase interface {
	Execute(ctx context.Context, id string) (PokemonDetails, error)
}

// GetSpeciesUseCase searches the catalog by name prefix; an empty prefix
// lists every species.
type GetSpeciesUseCase interface {
	Execute(ctx context.Context, prefix string) ([]Species, error)
}

// GetMovesUseCase lists the moves a species can learn.
type GetMovesUseCase interface {
	Execute(ctx context.Context, speciesID int) ([]Move, error)
}

// AddPokemonUseCase adds a pokemon to the current user's collection.
type AddPokemonUseCase interface {
	Execute(ctx context.Context, req AddPokemonRequest) (OwnedPokemon, error)
}

// GetDamageUseCase computes the damage range of a move between two owned
// pokemon.
type GetDamageUseCase interface {
	Execute(ctx context.Context, req DamageRequest) (DamageRange, error)
}

type getOwnedPokemonShort struct{ c *Component }

func (u getOwnedPokemonShort) Execute(ctx context.Context) ([]ShortPokemon, error) {
	userID, err := u.c.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	owned := u.c.owned.list(userID)
	out := make([]ShortPokemon, 0, len(owned))
	for _, p := range owned {
		out = append(out, u.c.short(p))
	}
	return out, nil
}

type getPokemonDetails struct{ c *Component }

func (u getPokemonDetails) Execute(ctx context.Context, id string) (PokemonDetails, error) {
	userID, err := u.c.currentUser(ctx)
	if err != nil {
		return PokemonDetails{}, err
	}
	p, ok := u.c.owned.get(userID, id)
	if !ok {
		return PokemonDetails{}, errors.NotFound("pokemon", id)
	}
	sp, _ := u.c.catalog.speciesByID(p.SpeciesID)
	moves := make([]Move, 0, len(p.Moves))
	for _, moveID := range p.Moves {
		if m, ok := u.c.catalog.move(moveID); ok {
			moves = append(moves, m)
		}
	}
	return PokemonDetails{OwnedPokemon: p, Species: sp, Moveset: moves}, nil
}

type getSpecies struct{ c *Component }

func (u getSpecies) Execute(ctx context.Context, prefix string) ([]Species, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return u.c.catalog.search(prefix), nil
}

type getMoves struct{ c *Component }

func (u getMoves) Execute(ctx context.Context, speciesID int) ([]Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sp, ok := u.c.catalog.speciesByID(speciesID)
	if !ok {
		return nil, errors.NotFound("species", strconv.Itoa(speciesID))
	}
	moves := make([]Move, 0, len(sp.Moves))
	for _, id := range sp.Moves {
		if m, ok := u.c.catalog.move(id); ok {
			moves = append(moves, m)
		}
	}
	return moves, nil
}

type addPokemon struct{ c *Component }

func (u addPokemon) Execute(ctx context.Context, req AddPokemonRequest) (OwnedPokemon, error) {
	if err := validation.Validate(req); err != nil {
		return OwnedPokemon{}, err
	}
	userID, err := u.c.currentUser(ctx)
	if err != nil {
		return OwnedPokemon{}, err
	}
	sp, ok := u.c.catalog.speciesByID(req.SpeciesID)
	if !ok {
		return OwnedPokemon{}, errors.NotFound("species", strconv.Itoa(req.SpeciesID))
	}

	seen := make(map[string]bool, len(req.Moves))
	v := validation.New()
	for _, m := range req.Moves {
		v.Custom(sp.Learns(m), "moves", fmt.Sprintf("%s cannot learn %q", sp.Name, m))
		v.Custom(!seen[m], "moves", fmt.Sprintf("%q is listed twice", m))
		seen[m] = true
	}
	if err := v.Err(); err != nil {
		return OwnedPokemon{}, err
	}

	p := OwnedPokemon{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		SpeciesID: sp.ID,
		Nickname:  req.Nickname,
		Level:     req.Level,
		Moves:     append([]string(nil), req.Moves...),
		Stats:     sp.Base.AtLevel(req.Level),
		CaughtAt:  u.c.now(),
	}
	u.c.owned.add(p)
	logger.Get("pokemon").Debug("pokemon added", logger.Fields(
		logger.FieldUserID, userID,
		"species", sp.Name,
		"level", p.Level,
	))
	return p, nil
}

type getDamage struct{ c *Component }

func (u getDamage) Execute(ctx context.Context, req DamageRequest) (DamageRange, error) {
	if err := validation.Validate(req); err != nil {
		return DamageRange{}, err
	}
	userID, err := u.c.currentUser(ctx)
	if err != nil {
		return DamageRange{}, err
	}
	attacker, ok := u.c.owned.get(userID, req.AttackerID)
	if !ok {
		return DamageRange{}, errors.NotFound("pokemon", req.AttackerID)
	}
	defender, ok := u.c.owned.get(userID, req.DefenderID)
	if !ok {
		return DamageRange{}, errors.NotFound("pokemon", req.DefenderID)
	}
	if !attacker.Knows(req.MoveID) {
		return DamageRange{}, errors.InvalidInput("move_id", "the attacker does not know this move")
	}
	move, _ := u.c.catalog.move(req.MoveID)
	if move.Category == Status || move.Power == 0 {
		return DamageRange{}, errors.InvalidInput("move_id", "status moves deal no damage")
	}

	atkSpecies, _ := u.c.catalog.speciesByID(attacker.SpeciesID)
	defSpecies, _ := u.c.catalog.speciesByID(defender.SpeciesID)
	return Damage(attacker.Level, attacker.Stats, atkSpecies.Types, defender.Stats, defSpecies.Types, move), nil
}
