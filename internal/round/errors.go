package round

import "errors"

var (
	ErrInvalidPlayerID = errors.New("round: invalid player id")
	ErrPlayerExists    = errors.New("round: player already in roster")
	ErrRoundActive     = errors.New("round: already active")
	ErrRoundInactive   = errors.New("round: not active")
)
