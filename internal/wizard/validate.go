package wizard

import "strings"

// Problems maps a field to a user-facing message for every unmet requirement
// of a step.
type Problems map[Field]string

// FieldStep is the key Check uses when the step itself is out of range.
const FieldStep Field = "step"

// Validate reports whether the fields a step requires are all present. It
// inspects only the fields relevant to that step.
func Validate(step Step, d FormData) bool {
	return len(Check(step, d)) == 0
}

// Check lists the unmet requirements of a step.
func Check(step Step, d FormData) Problems {
	p := Problems{}
	switch step {
	case StepSource:
		if !d.InterviewSource.Valid() {
			p[FieldInterviewSource] = "choose new or existing"
		}
	case StepJob:
		if blank(d.JobID) {
			p[FieldJobID] = "select a job"
		}
	case StepRound:
		checkRound(p, d)
	case StepQuestions:
		checkQuestions(p, d)
	case StepInstructions:
		if d.ReminderEnabled && d.ReminderTime <= 0 {
			p[FieldReminderTime] = "choose when to send the reminder"
		}
	default:
		p[FieldStep] = "unknown step"
	}
	return p
}

func checkRound(p Problems, d FormData) {
	if d.InterviewSource == SourceExisting {
		if blank(d.RoundID) {
			p[FieldRoundID] = "select a round"
		}
		return
	}
	if blank(d.RoundName) {
		p[FieldRoundName] = "round name is required"
	}
	if blank(d.RoundType) {
		p[FieldRoundType] = "round type is required"
	}
	if d.Duration <= 0 {
		p[FieldDuration] = "duration is required"
	}
	if blank(d.Language) {
		p[FieldLanguage] = "language is required"
	}
	if blank(d.InterviewerID) {
		p[FieldInterviewerID] = "select an interviewer"
	}
}

func checkQuestions(p Problems, d FormData) {
	needAI, needCustom := false, false
	switch d.QuestionType {
	case QuestionsAI:
		needAI = true
	case QuestionsCustom:
		needCustom = true
	case QuestionsHybrid:
		needAI, needCustom = true, true
	default:
		p[FieldQuestionType] = "choose a question type"
		return
	}
	if needAI && d.AIQuestionCount <= 0 {
		p[FieldAIQuestionCount] = "choose how many AI questions to ask"
	}
	if needCustom && len(d.NonEmptyCustomQuestions()) == 0 {
		p[FieldCustomQuestions] = "add at least one custom question"
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
