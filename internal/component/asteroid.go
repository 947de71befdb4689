package component

// AsteroidVariant selects the hazard behaviour chosen at creation.
type AsteroidVariant uint8

const (
	AsteroidNormal AsteroidVariant = iota
	AsteroidFalling
)

func (v AsteroidVariant) String() string {
	if v == AsteroidFalling {
		return "falling"
	}
	return "normal"
}

type Asteroid struct {
	Variant AsteroidVariant
	Scale   float64
}
