package pokemon

import (
	"sort"
	"strings"
)

type catalog struct {
	species map[int]Species
	moves   map[string]Move
}

func (c *catalog) speciesByID(id int) (Species, bool) {
	s, ok := c.species[id]
	return s, ok
}

func (c *catalog) move(id string) (Move, bool) {
	m, ok := c.moves[id]
	return m, ok
}

// search returns species whose name starts with prefix, sorted by id.
func (c *catalog) search(prefix string) []Species {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]Species, 0, len(c.species))
	for _, s := range c.species {
		if strings.HasPrefix(strings.ToLower(s.Name), prefix) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func newCatalog() *catalog {
	moves := []Move{
		{ID: "tackle", Name: "Tackle", Type: Normal, Category: Physical, Power: 40, Accuracy: 100},
		{ID: "scratch", Name: "Scratch", Type: Normal, Category: Physical, Power: 40, Accuracy: 100},
		{ID: "quick-attack", Name: "Quick Attack", Type: Normal, Category: Physical, Power: 40, Accuracy: 100},
		{ID: "growl", Name: "Growl", Type: Normal, Category: Status, Accuracy: 100},
		{ID: "vine-whip", Name: "Vine Whip", Type: Grass, Category: Physical, Power: 45, Accuracy: 100},
		{ID: "razor-leaf", Name: "Razor Leaf", Type: Grass, Category: Physical, Power: 55, Accuracy: 95},
		{ID: "ember", Name: "Ember", Type: Fire, Category: Special, Power: 40, Accuracy: 100},
		{ID: "flamethrower", Name: "Flamethrower", Type: Fire, Category: Special, Power: 90, Accuracy: 100},
		{ID: "water-gun", Name: "Water Gun", Type: Water, Category: Special, Power: 40, Accuracy: 100},
		{ID: "surf", Name: "Surf", Type: Water, Category: Special, Power: 90, Accuracy: 100},
		{ID: "thunder-shock", Name: "Thunder Shock", Type: Electric, Category: Special, Power: 40, Accuracy: 100},
		{ID: "thunderbolt", Name: "Thunderbolt", Type: Electric, Category: Special, Power: 90, Accuracy: 100},
		{ID: "thunder-wave", Name: "Thunder Wave", Type: Electric, Category: Status, Accuracy: 90},
		{ID: "rock-throw", Name: "Rock Throw", Type: Rock, Category: Physical, Power: 50, Accuracy: 90},
		{ID: "earthquake", Name: "Earthquake", Type: Ground, Category: Physical, Power: 100, Accuracy: 100},
		{ID: "shadow-ball", Name: "Shadow Ball", Type: Ghost, Category: Special, Power: 80, Accuracy: 100},
		{ID: "sludge-bomb", Name: "Sludge Bomb", Type: Poison, Category: Special, Power: 90, Accuracy: 100},
		{ID: "dragon-claw", Name: "Dragon Claw", Type: Dragon, Category: Physical, Power: 80, Accuracy: 100},
		{ID: "wing-attack", Name: "Wing Attack", Type: Flying, Category: Physical, Power: 60, Accuracy: 100},
	}
	species := []Species{
		{ID: 1, Name: "Bulbasaur", Types: []Type{Grass, Poison},
			Base:  Stats{HP: 45, Attack: 49, Defense: 49, SpAttack: 65, SpDefense: 65, Speed: 45},
			Moves: []string{"tackle", "growl", "vine-whip", "razor-leaf", "sludge-bomb"}},
		{ID: 4, Name: "Charmander", Types: []Type{Fire},
			Base:  Stats{HP: 39, Attack: 52, Defense: 43, SpAttack: 60, SpDefense: 50, Speed: 65},
			Moves: []string{"scratch", "growl", "ember", "flamethrower", "dragon-claw"}},
		{ID: 7, Name: "Squirtle", Types: []Type{Water},
			Base:  Stats{HP: 44, Attack: 48, Defense: 65, SpAttack: 50, SpDefense: 64, Speed: 43},
			Moves: []string{"tackle", "growl", "water-gun", "surf"}},
		{ID: 25, Name: "Pikachu", Types: []Type{Electric},
			Base:  Stats{HP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90},
			Moves: []string{"quick-attack", "growl", "thunder-shock", "thunderbolt", "thunder-wave"}},
		{ID: 74, Name: "Geodude", Types: []Type{Rock, Ground},
			Base:  Stats{HP: 40, Attack: 80, Defense: 100, SpAttack: 30, SpDefense: 30, Speed: 20},
			Moves: []string{"tackle", "rock-throw", "earthquake"}},
		{ID: 94, Name: "Gengar", Types: []Type{Ghost, Poison},
			Base:  Stats{HP: 60, Attack: 65, Defense: 60, SpAttack: 130, SpDefense: 75, Speed: 110},
			Moves: []string{"shadow-ball", "sludge-bomb", "thunderbolt"}},
		{ID: 133, Name: "Eevee", Types: []Type{Normal},
			Base:  Stats{HP: 55, Attack: 55, Defense: 50, SpAttack: 45, SpDefense: 65, Speed: 55},
			Moves: []string{"tackle", "growl", "quick-attack", "shadow-ball"}},
		{ID: 149, Name: "Dragonite", Types: []Type{Dragon, Flying},
			Base:  Stats{HP: 91, Attack: 134, Defense: 95, SpAttack: 100, SpDefense: 100, Speed: 80},
			Moves: []string{"dragon-claw", "wing-attack", "earthquake", "thunderbolt", "surf", "flamethrower"}},
	}

	c := &catalog{species: make(map[int]Species, len(species)), moves: make(map[string]Move, len(moves))}
	for _, m := range moves {
		c.moves[m.ID] = m
	}
	for _, s := range species {
		c.species[s.ID] = s
	}
	return c
}
