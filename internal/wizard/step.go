// Package wizard holds the interview-creation wizard: the accumulated form
// state, per-step validation, branch-aware step navigation and the shell that
// ties them together around a single terminal submission.
package wizard

import (
	"fmt"
	"strings"
)

// Source is the branch selector captured at the first step.
type Source string

const (
	SourceUnset    Source = ""
	SourceNew      Source = "new"
	SourceExisting Source = "existing"
)

// ParseSource maps a raw value onto a Source. The empty string is accepted and
// yields SourceUnset.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceUnset:
		return SourceUnset, nil
	case SourceNew:
		return SourceNew, nil
	case SourceExisting:
		return SourceExisting, nil
	}
	return SourceUnset, fmt.Errorf("unknown interview source %q", s)
}

// Valid reports whether s is a selectable branch.
func (s Source) Valid() bool {
	return s == SourceNew || s == SourceExisting
}

// Step identifies one screen of the wizard.
type Step int

const (
	StepSource Step = iota + 1
	StepJob
	StepRound
	StepQuestions
	StepInstructions
)

const (
	FirstStep = StepSource
	LastStep  = StepInstructions
)

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	switch s {
	case StepSource:
		return "source"
	case StepJob:
		return "job"
	case StepRound:
		return "round"
	case StepQuestions:
		return "questions"
	case StepInstructions:
		return "instructions"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	newSteps      = []Step{StepSource, StepJob, StepRound, StepQuestions, StepInstructions}
	existingSteps = []Step{StepSource, StepJob, StepRound, StepInstructions}
)

// Steps returns the ordered steps reachable on a branch. Existing rounds
// inherit their questions from the job template, so the questions step is
// absent there. An unset source follows the new-branch sequence until the
// first step is completed.
func Steps(src Source) []Step {
	if src == SourceExisting {
		return append([]Step(nil), existingSteps...)
	}
	return append([]Step(nil), newSteps...)
}

// Reachable reports whether step is part of the branch's sequence.
func Reachable(src Source, step Step) bool {
	for _, s := range Steps(src) {
		if s == step {
			return true
		}
	}
	return false
}

// Terminal returns the last step of a branch.
func Terminal(src Source) Step {
	steps := Steps(src)
	return steps[len(steps)-1]
}

type stepCopy struct {
	title       string
	description string
}

var stepTitles = map[Source]map[Step]stepCopy{
	SourceNew: {
		StepSource:       {"Create Interview", "Choose whether to create a new round or reuse an existing one."},
		StepJob:          {"Select Job", "Pick the job this interview round belongs to."},
		StepRound:        {"Round Details", "Set the round name, type, duration, language and interviewer."},
		StepQuestions:    {"Questions", "Choose AI generated, custom or hybrid questions."},
		StepInstructions: {"Instructions", "Add candidate instructions and reminder settings."},
	},
	SourceExisting: {
		StepSource:       {"Create Interview", "Choose whether to create a new round or reuse an existing one."},
		StepJob:          {"Select Existing Job", "Pick the job whose round you want to reuse."},
		StepRound:        {"Select Round", "Pick the round to schedule. Questions come from the round template."},
		StepInstructions: {"Instructions", "Add candidate instructions and reminder settings."},
	},
}

// Title returns the heading shown for a step on a branch.
func Title(step Step, src Source) string {
	return lookupCopy(step, src).title
}

// Description returns the sub-heading shown for a step on a branch.
func Description(step Step, src Source) string {
	return lookupCopy(step, src).description
}

func lookupCopy(step Step, src Source) stepCopy {
	if src != SourceExisting {
		src = SourceNew
	}
	if c, ok := stepTitles[src][step]; ok {
		return c
	}
	return stepCopy{}
}
