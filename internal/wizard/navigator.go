package wizard

import "fmt"

// Navigator tracks the current step and moves it along the branch's
// sequence. It never leaves the bounds of the current branch.
type Navigator struct {
	step   Step
	source Source
}

func NewNavigator() *Navigator {
	return &Navigator{step: FirstStep}
}

func (n *Navigator) Step() Step     { return n.step }
func (n *Navigator) Source() Source { return n.source }

// IsLast reports whether the current step is the branch's terminal step.
func (n *Navigator) IsLast() bool {
	return n.step == Terminal(n.source)
}

// SetSource switches the branch. When the current step does not exist on the
// new branch the navigator falls back to the nearest reachable step below it.
func (n *Navigator) SetSource(src Source) {
	n.source = src
	n.step = clamp(src, n.step)
}

// Next moves one step forward. At the terminal step it stays put and returns
// false, signalling that the caller should submit instead.
func (n *Navigator) Next() (Step, bool) {
	steps := Steps(n.source)
	i := indexOf(steps, n.step)
	if i < 0 || i == len(steps)-1 {
		return n.step, false
	}
	n.step = steps[i+1]
	return n.step, true
}

// Previous moves one step back, skipping steps absent from the branch. It is a
// no-op on the first step.
func (n *Navigator) Previous() Step {
	steps := Steps(n.source)
	if i := indexOf(steps, n.step); i > 0 {
		n.step = steps[i-1]
	}
	return n.step
}

// Rewind moves back to step if it is reachable and precedes the current one.
func (n *Navigator) Rewind(step Step) {
	if Reachable(n.source, step) && step < n.step {
		n.step = step
	}
}

// Reset returns to the first step and clears the branch.
func (n *Navigator) Reset() {
	n.step = FirstStep
	n.source = SourceUnset
}

// Restore places the navigator at a previously saved position.
func (n *Navigator) Restore(step Step, src Source) error {
	if !Reachable(src, step) {
		return fmt.Errorf("step %d is not reachable on branch %q", step, src)
	}
	n.step, n.source = step, src
	return nil
}

func clamp(src Source, step Step) Step {
	steps := Steps(src)
	out := steps[0]
	for _, s := range steps {
		if s > step {
			break
		}
		out = s
	}
	return out
}

func indexOf(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
