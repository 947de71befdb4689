package component

import "time"

// Collectable is a pickup. Lifetime is informational: age alone never
// removes it.
type Collectable struct {
	Kind     string
	Lifetime time.Duration
}
