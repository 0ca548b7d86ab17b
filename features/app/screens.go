package app

import (
	"context"

	"github.com/kbukum/featurekit/features/pokemon"
)

// DetailsScreen backs the pokemon details view: the owned pokemon and the
// moves its species can still learn.
type DetailsScreen struct {
	Details   pokemon.PokemonDetails
	Learnable []pokemon.Move
}

// OpenDetails loads the details view for an owned pokemon. Screens sit
// inside the feature and use the full component, not the API.
func OpenDetails(ctx context.Context, id string) (DetailsScreen, error) {
	c, err := component()
	if err != nil {
		return DetailsScreen{}, err
	}
	deps := c.Deps()

	details, err := deps.GetPokemonDetails.Execute(ctx, id)
	if err != nil {
		return DetailsScreen{}, err
	}
	moves, err := deps.GetMoves.Execute(ctx, details.SpeciesID)
	if err != nil {
		return DetailsScreen{}, err
	}

	learnable := make([]pokemon.Move, 0, len(moves))
	for _, m := range moves {
		if !details.Knows(m.ID) {
			learnable = append(learnable, m)
		}
	}
	return DetailsScreen{Details: details, Learnable: learnable}, nil
}
