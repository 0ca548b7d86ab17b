package pokemon

import (
	"math"
	"slices"
)

const (
	stabBonus     = 1.5
	minRandomRoll = 0.85
)

// Damage computes the damage range of move:
//
//	base = ((2L/5 + 2) * P * A/D) / 50 + 2
//
// with integer truncation at each step, then STAB and type effectiveness,
// over the random factor 0.85 to 1.0. Physical moves use Attack against
// Defense, special moves SpAttack against SpDefense.
func Damage(level int, atk Stats, atkTypes []Type, def Stats, defTypes []Type, move Move) DamageRange {
	a, d := atk.Attack, def.Defense
	if move.Category == Special {
		a, d = atk.SpAttack, def.SpDefense
	}
	if d < 1 {
		d = 1
	}

	base := (2*level/5+2)*move.Power*a/d/50 + 2

	stab := slices.Contains(atkTypes, move.Type)
	eff := Effectiveness(move.Type, defTypes)
	mod := eff
	if stab {
		mod *= stabBonus
	}

	high := float64(base) * mod
	return DamageRange{
		Min:           int(math.Floor(high * minRandomRoll)),
		Max:           int(math.Floor(high)),
		Effectiveness: eff,
		STAB:          stab,
	}
}
