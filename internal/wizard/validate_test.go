package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completeNew() FormData {
	d := DefaultFormData()
	d.InterviewSource = SourceNew
	d.JobID = "job_1"
	d.RoundName = "Technical Round"
	d.RoundType = "technical"
	d.Duration = 30
	d.InterviewerID = "int_1"
	return d
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		step   Step
		mutate func(d *FormData)
		want   bool
		field  Field
	}{
		{"source unset", StepSource, func(d *FormData) { d.InterviewSource = SourceUnset }, false, FieldInterviewSource},
		{"source set", StepSource, func(d *FormData) {}, true, ""},
		{"job missing", StepJob, func(d *FormData) { d.JobID = "  " }, false, FieldJobID},
		{"job set", StepJob, func(d *FormData) {}, true, ""},
		{"round name missing", StepRound, func(d *FormData) { d.RoundName = "" }, false, FieldRoundName},
		{"round duration missing", StepRound, func(d *FormData) { d.Duration = 0 }, false, FieldDuration},
		{"round interviewer missing", StepRound, func(d *FormData) { d.InterviewerID = "" }, false, FieldInterviewerID},
		{"existing round needs round id", StepRound, func(d *FormData) {
			d.InterviewSource = SourceExisting
		}, false, FieldRoundID},
		{"existing round ignores round name", StepRound, func(d *FormData) {
			d.InterviewSource = SourceExisting
			d.RoundName = ""
			d.RoundID = "round2"
		}, true, ""},
		{"ai needs count", StepQuestions, func(d *FormData) { d.AIQuestionCount = 0 }, false, FieldAIQuestionCount},
		{"ai with count", StepQuestions, func(d *FormData) {}, true, ""},
		{"hybrid needs custom text", StepQuestions, func(d *FormData) {
			d.QuestionType = QuestionsHybrid
			d.CustomQuestions = []string{"", "  "}
		}, false, FieldCustomQuestions},
		{"hybrid with text", StepQuestions, func(d *FormData) {
			d.QuestionType = QuestionsHybrid
			d.CustomQuestions = []string{"", "Why us?"}
		}, true, ""},
		{"custom ignores ai count", StepQuestions, func(d *FormData) {
			d.QuestionType = QuestionsCustom
			d.AIQuestionCount = 0
			d.CustomQuestions = []string{"Why us?"}
		}, true, ""},
		{"unknown question type", StepQuestions, func(d *FormData) { d.QuestionType = "quiz" }, false, FieldQuestionType},
		{"reminder without time", StepInstructions, func(d *FormData) { d.ReminderEnabled = true }, false, FieldReminderTime},
		{"reminder with time", StepInstructions, func(d *FormData) {
			d.ReminderEnabled = true
			d.ReminderTime = 60
		}, true, ""},
		{"step out of range", Step(9), func(d *FormData) {}, false, FieldStep},
		{"step zero", Step(0), func(d *FormData) {}, false, FieldStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeNew()
			tt.mutate(&d)

			assert.Equal(t, tt.want, Validate(tt.step, d))
			if tt.field != "" {
				assert.Contains(t, Check(tt.step, d), tt.field)
			}
		})
	}
}

func TestValidateZeroValueNeverPanics(t *testing.T) {
	for s := Step(-1); s <= LastStep+1; s++ {
		assert.NotPanics(t, func() { Validate(s, FormData{}) })
	}
}

func TestNavigatorBounds(t *testing.T) {
	n := NewNavigator()
	n.SetSource(SourceExisting)

	var visited []Step
	for {
		visited = append(visited, n.Step())
		if _, moved := n.Next(); !moved {
			break
		}
	}
	assert.Equal(t, []Step{1, 2, 3, 5}, visited)
	assert.True(t, n.IsLast())

	step, moved := n.Next()
	assert.False(t, moved)
	assert.Equal(t, StepInstructions, step)

	n.Reset()
	assert.Equal(t, StepSource, n.Step())
	assert.Equal(t, SourceUnset, n.Source())
}

func TestStoreSetCoercion(t *testing.T) {
	s := NewStore()

	assert.NoError(t, s.Set(FieldDuration, "45"))
	assert.NoError(t, s.Set(FieldCustomQuestionCount, 3))
	assert.NoError(t, s.Set(FieldReminderEnabled, true))
	assert.ErrorIs(t, s.Set(FieldDuration, 4.5), ErrFieldType)
	assert.Error(t, s.Set(FieldInterviewSource, "maybe"))
	assert.ErrorIs(t, s.Set("nickname", "x"), ErrUnknownField)

	d := s.Data()
	assert.Equal(t, 45, d.Duration)
	assert.Len(t, d.CustomQuestions, 3)
	assert.True(t, d.ReminderEnabled)

	v, err := s.Get(FieldDuration)
	assert.NoError(t, err)
	assert.Equal(t, 45, v)
}
