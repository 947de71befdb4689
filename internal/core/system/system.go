package system

import "time"

// Phase defines execution ordering within a single frame or physics step.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain pad packet queues
	PhasePreUpdate               // 1: deliver last frame's events
	PhaseUpdate                  // 2: round logic, timers, motion
	PhasePostUpdate              // 3: collisions, pool repair
	PhaseOutput                  // 4: flush packets to pads
	PhasePersist                 // 5: score flush
	PhaseCleanup                 // 6: destroy queued entities
)

// System is the interface every frame or physics system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
