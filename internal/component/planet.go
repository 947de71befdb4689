package component

// Planet is a static mass source.
type Planet struct {
	Name string
}
