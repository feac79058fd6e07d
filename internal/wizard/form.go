package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("value has wrong type for field")
)

// Field names a single entry of the form state. Values match the JSON keys
// used by the dashboard.
type Field string

const (
	FieldInterviewSource     Field = "interviewSource"
	FieldJobID               Field = "jobId"
	FieldJobTitle            Field = "jobTitle"
	FieldRoundID             Field = "roundId"
	FieldRoundName           Field = "roundName"
	FieldRoundType           Field = "roundType"
	FieldObjective           Field = "objective"
	FieldDuration            Field = "duration"
	FieldLanguage            Field = "language"
	FieldInterviewerID       Field = "interviewerId"
	FieldQuestionType        Field = "questionType"
	FieldAIQuestionCount     Field = "aiQuestionCount"
	FieldCustomQuestionCount Field = "customQuestionCount"
	FieldCustomQuestions     Field = "customQuestions"
	FieldInstructions        Field = "instructions"
	FieldReminderEnabled     Field = "reminderEnabled"
	FieldReminderTime        Field = "reminderTime"
	FieldWhatsAppReminder    Field = "whatsappReminder"
)

// QuestionType selects how the round's questions are produced.
type QuestionType string

const (
	QuestionsAI     QuestionType = "ai"
	QuestionsCustom QuestionType = "custom"
	QuestionsHybrid QuestionType = "hybrid"
)

func (q QuestionType) Valid() bool {
	return q == QuestionsAI || q == QuestionsCustom || q == QuestionsHybrid
}

// FormData is everything the wizard collects before submission.
type FormData struct {
	InterviewSource     Source       `json:"interviewSource"`
	JobID               string       `json:"jobId"`
	JobTitle            string       `json:"jobTitle"`
	RoundID             string       `json:"roundId"`
	RoundName           string       `json:"roundName"`
	RoundType           string       `json:"roundType"`
	Objective           string       `json:"objective"`
	Duration            int          `json:"duration"` // minutes
	Language            string       `json:"language"`
	InterviewerID       string       `json:"interviewerId"`
	QuestionType        QuestionType `json:"questionType"`
	AIQuestionCount     int          `json:"aiQuestionCount"`
	CustomQuestionCount int          `json:"customQuestionCount"`
	CustomQuestions     []string     `json:"customQuestions"`
	Instructions        string       `json:"instructions"`
	ReminderEnabled     bool         `json:"reminderEnabled"`
	ReminderTime        int          `json:"reminderTime"` // minutes before the interview
	WhatsAppReminder    bool         `json:"whatsappReminder"`
}

// DefaultFormData returns the state a fresh wizard starts from.
func DefaultFormData() FormData {
	return FormData{
		Language:            "en",
		QuestionType:        QuestionsAI,
		AIQuestionCount:     5,
		CustomQuestionCount: 1,
		CustomQuestions:     []string{""},
	}
}

func (d FormData) clone() FormData {
	d.CustomQuestions = append([]string(nil), d.CustomQuestions...)
	return d
}

// NonEmptyCustomQuestions returns the custom question texts with blanks removed.
func (d FormData) NonEmptyCustomQuestions() []string {
	var out []string
	for _, q := range d.CustomQuestions {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// Store is the key/value container behind one wizard invocation. It performs
// type coercion only; whether a value is acceptable for a step is the
// validator's business.
type Store struct {
	data FormData
}

func NewStore() *Store {
	return &Store{data: DefaultFormData()}
}

// Data returns a copy of the current form state.
func (s *Store) Data() FormData {
	return s.data.clone()
}

// Load replaces the form state wholesale, used when rehydrating a session.
func (s *Store) Load(d FormData) {
	s.data = d.clone()
}

func (s *Store) Reset() {
	s.data = DefaultFormData()
}

// Get returns the current value of a field.
func (s *Store) Get(f Field) (any, error) {
	d := &s.data
	switch f {
	case FieldInterviewSource:
		return d.InterviewSource, nil
	case FieldJobID:
		return d.JobID, nil
	case FieldJobTitle:
		return d.JobTitle, nil
	case FieldRoundID:
		return d.RoundID, nil
	case FieldRoundName:
		return d.RoundName, nil
	case FieldRoundType:
		return d.RoundType, nil
	case FieldObjective:
		return d.Objective, nil
	case FieldDuration:
		return d.Duration, nil
	case FieldLanguage:
		return d.Language, nil
	case FieldInterviewerID:
		return d.InterviewerID, nil
	case FieldQuestionType:
		return d.QuestionType, nil
	case FieldAIQuestionCount:
		return d.AIQuestionCount, nil
	case FieldCustomQuestionCount:
		return d.CustomQuestionCount, nil
	case FieldCustomQuestions:
		return append([]string(nil), d.CustomQuestions...), nil
	case FieldInstructions:
		return d.Instructions, nil
	case FieldReminderEnabled:
		return d.ReminderEnabled, nil
	case FieldReminderTime:
		return d.ReminderTime, nil
	case FieldWhatsAppReminder:
		return d.WhatsAppReminder, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
}

// Set assigns one field. Values decoded from JSON (float64, json.Number,
// []any) are accepted alongside their native Go types.
func (s *Store) Set(f Field, v any) error {
	d := &s.data
	var err error
	switch f {
	case FieldInterviewSource:
		var raw string
		if raw, err = asString(v); err == nil {
			d.InterviewSource, err = ParseSource(raw)
		}
	case FieldJobID:
		d.JobID, err = setString(d.JobID, v)
	case FieldJobTitle:
		d.JobTitle, err = setString(d.JobTitle, v)
	case FieldRoundID:
		d.RoundID, err = setString(d.RoundID, v)
	case FieldRoundName:
		d.RoundName, err = setString(d.RoundName, v)
	case FieldRoundType:
		d.RoundType, err = setString(d.RoundType, v)
	case FieldObjective:
		d.Objective, err = setString(d.Objective, v)
	case FieldDuration:
		d.Duration, err = setInt(d.Duration, v)
	case FieldLanguage:
		d.Language, err = setString(d.Language, v)
	case FieldInterviewerID:
		d.InterviewerID, err = setString(d.InterviewerID, v)
	case FieldQuestionType:
		var raw string
		if raw, err = asString(v); err == nil {
			d.QuestionType = QuestionType(strings.ToLower(strings.TrimSpace(raw)))
		}
	case FieldAIQuestionCount:
		d.AIQuestionCount, err = setInt(d.AIQuestionCount, v)
	case FieldCustomQuestionCount:
		var n int
		if n, err = asInt(v); err == nil {
			d.CustomQuestionCount = n
			d.CustomQuestions = resize(d.CustomQuestions, n)
		}
	case FieldCustomQuestions:
		var qs []string
		if qs, err = asStrings(v); err == nil {
			d.CustomQuestions = qs
			d.CustomQuestionCount = len(qs)
		}
	case FieldInstructions:
		d.Instructions, err = setString(d.Instructions, v)
	case FieldReminderEnabled:
		d.ReminderEnabled, err = setBool(d.ReminderEnabled, v)
	case FieldReminderTime:
		d.ReminderTime, err = setInt(d.ReminderTime, v)
	case FieldWhatsAppReminder:
		d.WhatsAppReminder, err = setBool(d.WhatsAppReminder, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", f, err)
	}
	return nil
}

func resize(qs []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(qs) >= n {
		return append([]string(nil), qs[:n]...)
	}
	out := make([]string, n)
	copy(out, qs)
	return out
}

func setString(cur string, v any) (string, error) {
	s, err := asString(v)
	if err != nil {
		return cur, err
	}
	return s, nil
}

func setInt(cur int, v any) (int, error) {
	n, err := asInt(v)
	if err != nil {
		return cur, err
	}
	return n, nil
}

func setBool(cur bool, v any) (bool, error) {
	b, err := asBool(v)
	if err != nil {
		return cur, err
	}
	return b, nil
}

func asString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case Source:
		return string(x), nil
	case QuestionType:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", ErrFieldType
}

func asInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, ErrFieldType
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, ErrFieldType
		}
		return int(n), nil
	case string:
		// dropdowns submit numeric options as strings ("30", "45")
		if strings.TrimSpace(x) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, ErrFieldType
		}
		return n, nil
	}
	return 0, ErrFieldType
}

func asBool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, ErrFieldType
		}
		return b, nil
	}
	return false, ErrFieldType
}

func asStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), x...), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, ErrFieldType
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, ErrFieldType
}
