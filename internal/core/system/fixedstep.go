package system

import "time"

// FixedStep converts variable frame deltas into a whole number of fixed
// physics steps. Leftover time carries over to the next frame.
type FixedStep struct {
	step     time.Duration
	maxSteps int
	acc      time.Duration
}

// NewFixedStep panics on a non-positive step; config validation rejects it first.
func NewFixedStep(step time.Duration, maxSteps int) *FixedStep {
	if step <= 0 {
		panic("system: fixed step must be positive")
	}
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &FixedStep{step: step, maxSteps: maxSteps}
}

func (f *FixedStep) Step() time.Duration { return f.step }

// Advance adds frame time and returns how many fixed steps are due.
// A backlog beyond maxSteps is dropped so a stalled frame cannot spiral.
func (f *FixedStep) Advance(frame time.Duration) int {
	if frame < 0 {
		frame = 0
	}
	f.acc += frame
	n := int(f.acc / f.step)
	if n > f.maxSteps {
		n = f.maxSteps
		f.acc = 0
		return n
	}
	f.acc -= time.Duration(n) * f.step
	return n
}
