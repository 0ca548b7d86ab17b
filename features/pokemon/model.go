package pokemon

import "time"

// Stats is a full stat line.
type Stats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// AtLevel derives the stats of a pokemon at level from base stats, without
// individual or effort values.
func (base Stats) AtLevel(level int) Stats {
	stat := func(b int) int { return 2*b*level/100 + 5 }
	return Stats{
		HP:        2*base.HP*level/100 + level + 10,
		Attack:    stat(base.Attack),
		Defense:   stat(base.Defense),
		SpAttack:  stat(base.SpAttack),
		SpDefense: stat(base.SpDefense),
		Speed:     stat(base.Speed),
	}
}

// Category decides which stats a move uses.
type Category string

const (
	Physical Category = "physical"
	Special  Category = "special"
	Status   Category = "status"
)

// Move is a catalog move.
type Move struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Category Category `json:"category"`
	Power    int      `json:"power"`
	Accuracy int      `json:"accuracy"`
}

// Species is a catalog species with the moves it can learn.
type Species struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Types []Type   `json:"types"`
	Base  Stats    `json:"base_stats"`
	Moves []string `json:"moves"`
}

// Learns reports whether the species can learn moveID.
func (s Species) Learns(moveID string) bool {
	for _, m := range s.Moves {
		if m == moveID {
			return true
		}
	}
	return false
}

// OwnedPokemon is a pokemon in a user's collection.
type OwnedPokemon struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	SpeciesID int       `json:"species_id"`
	Nickname  string    `json:"nickname,omitempty"`
	Level     int       `json:"level"`
	Moves     []string  `json:"moves"`
	Stats     Stats     `json:"stats"`
	CaughtAt  time.Time `json:"caught_at"`
}

// Knows reports whether moveID is one of the pokemon's moves.
func (p OwnedPokemon) Knows(moveID string) bool {
	for _, m := range p.Moves {
		if m == moveID {
			return true
		}
	}
	return false
}

// ShortPokemon is the list view of an owned pokemon.
type ShortPokemon struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Level   int    `json:"level"`
	Types   []Type `json:"types"`
}

// PokemonDetails is an owned pokemon with its species and resolved moves.
type PokemonDetails struct {
	OwnedPokemon
	Species Species `json:"species"`
	Moveset []Move  `json:"moveset"`
}

// AddPokemonRequest adds a pokemon to the current user's collection.
type AddPokemonRequest struct {
	SpeciesID int      `json:"species_id" validate:"required,gt=0"`
	Nickname  string   `json:"nickname" validate:"max=24"`
	Level     int      `json:"level" validate:"required,min=1,max=100"`
	Moves     []string `json:"moves" validate:"max=4,dive,required"`
}

// DamageRequest names two owned pokemon and a move of the attacker.
type DamageRequest struct {
	AttackerID string `json:"attacker_id" validate:"required"`
	DefenderID string `json:"defender_id" validate:"required"`
	MoveID     string `json:"move_id" validate:"required"`
}

// DamageRange is the span of damage over the random factor 0.85 to 1.0.
type DamageRange struct {
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	Effectiveness float64 `json:"effectiveness"`
	STAB          bool    `json:"stab"`
}
