// Package formprops holds the option lists that populate dashboard forms
// (dropdowns for job, interviewer and interview creation). A Catalog is built
// once at startup and handed to whatever needs it.
package formprops

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Option is a single dropdown entry.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Catalog groups every option list by the form property key the dashboard
// asks for.
type Catalog struct {
	Domains              []Option `json:"domain" yaml:"domain"`
	JobLevels            []Option `json:"jobLevel" yaml:"jobLevel"`
	UserTypes            []Option `json:"userType" yaml:"userType"`
	JobStatuses          []Option `json:"status" yaml:"status"`
	RoundTypes           []Option `json:"roundType" yaml:"roundType"`
	Languages            []Option `json:"language" yaml:"language"`
	Durations            []Option `json:"duration" yaml:"duration"`
	ReminderTimes        []Option `json:"reminderTime" yaml:"reminderTime"`
	Voices               []Option `json:"voice" yaml:"voice"`
	Industries           []Option `json:"industry" yaml:"industry"`
	CompanySizes         []Option `json:"companySize" yaml:"companySize"`
	AIQuestionCounts     []int    `json:"aiQuestionCount" yaml:"aiQuestionCount"`
	CustomQuestionCounts []int    `json:"customQuestionCount" yaml:"customQuestionCount"`
}

// Default returns the built-in catalogue.
func Default() *Catalog {
	return &Catalog{
		Domains: []Option{
			{"engineering", "Engineering"},
			{"technical", "Technical"},
			{"product", "Product"},
			{"design", "Design"},
			{"marketing", "Marketing"},
			{"sales", "Sales"},
			{"hr", "Human Resources"},
		},
		JobLevels: []Option{
			{"intern", "Intern"},
			{"junior", "Junior"},
			{"mid", "Mid"},
			{"senior", "Senior"},
			{"lead", "Lead"},
			{"manager", "Manager"},
			{"director", "Director"},
		},
		UserTypes: []Option{
			{"full-time", "Full time"},
			{"part-time", "Part time"},
			{"contract", "Contract"},
			{"intern", "Intern"},
		},
		JobStatuses: []Option{
			{"active", "Active"},
			{"draft", "Draft"},
			{"closed", "Closed"},
		},
		RoundTypes: []Option{
			{"technical", "Technical"},
			{"behavioral", "Behavioral"},
			{"cultural", "Cultural Fit"},
			{"case-study", "Case Study"},
		},
		Languages: []Option{
			{"en", "English"},
			{"es", "Spanish"},
			{"fr", "French"},
			{"de", "German"},
		},
		Durations: []Option{
			{"15", "15 minutes"},
			{"30", "30 minutes"},
			{"45", "45 minutes"},
			{"60", "60 minutes"},
			{"90", "90 minutes"},
		},
		ReminderTimes: []Option{
			{"15", "15 minutes before"},
			{"30", "30 minutes before"},
			{"60", "1 hour before"},
			{"120", "2 hours before"},
			{"1440", "1 day before"},
			{"2880", "2 days before"},
		},
		Voices: []Option{
			{"alloy", "Alloy"},
			{"echo", "Echo"},
			{"nova", "Nova"},
			{"shimmer", "Shimmer"},
		},
		Industries: []Option{
			{"technology", "Technology"},
			{"healthcare", "Healthcare"},
			{"finance", "Finance"},
			{"retail", "Retail"},
			{"manufacturing", "Manufacturing"},
			{"education", "Education"},
			{"other", "Other"},
		},
		CompanySizes: []Option{
			{"1-10", "1-10 employees"},
			{"11-50", "11-50 employees"},
			{"51-200", "51-200 employees"},
			{"201-500", "201-500 employees"},
			{"501-1000", "501-1000 employees"},
			{"1000+", "1000+ employees"},
		},
		AIQuestionCounts:     []int{3, 5, 7, 10, 15},
		CustomQuestionCounts: []int{1, 2, 3, 4, 5},
	}
}

// Load reads a YAML catalogue. Lists missing from the file keep their
// built-in values. An empty path yields the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form properties: %w", err)
	}
	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing form properties: %w", err)
	}
	c.merge(&file)
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	mergeOptions(&c.Domains, o.Domains)
	mergeOptions(&c.JobLevels, o.JobLevels)
	mergeOptions(&c.UserTypes, o.UserTypes)
	mergeOptions(&c.JobStatuses, o.JobStatuses)
	mergeOptions(&c.RoundTypes, o.RoundTypes)
	mergeOptions(&c.Languages, o.Languages)
	mergeOptions(&c.Durations, o.Durations)
	mergeOptions(&c.ReminderTimes, o.ReminderTimes)
	mergeOptions(&c.Voices, o.Voices)
	mergeOptions(&c.Industries, o.Industries)
	mergeOptions(&c.CompanySizes, o.CompanySizes)
	if len(o.AIQuestionCounts) > 0 {
		c.AIQuestionCounts = o.AIQuestionCounts
	}
	if len(o.CustomQuestionCounts) > 0 {
		c.CustomQuestionCounts = o.CustomQuestionCounts
	}
}

func mergeOptions(dst *[]Option, src []Option) {
	if len(src) > 0 {
		*dst = src
	}
}

// Property keys accepted by Lookup.
const (
	KeyDomain              = "domain"
	KeyJobLevel            = "jobLevel"
	KeyUserType            = "userType"
	KeyStatus              = "status"
	KeyRoundType           = "roundType"
	KeyLanguage            = "language"
	KeyDuration            = "duration"
	KeyReminderTime        = "reminderTime"
	KeyVoice               = "voice"
	KeyIndustry            = "industry"
	KeyCompanySize         = "companySize"
	KeyAIQuestionCount     = "aiQuestionCount"
	KeyCustomQuestionCount = "customQuestionCount"
)

// Options returns the list stored under a property key.
func (c *Catalog) Options(key string) ([]Option, bool) {
	switch key {
	case KeyDomain:
		return c.Domains, true
	case KeyJobLevel:
		return c.JobLevels, true
	case KeyUserType:
		return c.UserTypes, true
	case KeyStatus:
		return c.JobStatuses, true
	case KeyRoundType:
		return c.RoundTypes, true
	case KeyLanguage:
		return c.Languages, true
	case KeyDuration:
		return c.Durations, true
	case KeyReminderTime:
		return c.ReminderTimes, true
	case KeyVoice:
		return c.Voices, true
	case KeyIndustry:
		return c.Industries, true
	case KeyCompanySize:
		return c.CompanySizes, true
	case KeyAIQuestionCount:
		return intOptions(c.AIQuestionCounts), true
	case KeyCustomQuestionCount:
		return intOptions(c.CustomQuestionCounts), true
	}
	return nil, false
}

// Lookup returns the lists for the requested keys. Unknown keys are skipped;
// no keys means everything.
func (c *Catalog) Lookup(keys ...string) map[string][]Option {
	if len(keys) == 0 {
		keys = []string{
			KeyDomain, KeyJobLevel, KeyUserType, KeyStatus, KeyRoundType,
			KeyLanguage, KeyDuration, KeyReminderTime, KeyVoice, KeyIndustry,
			KeyCompanySize, KeyAIQuestionCount, KeyCustomQuestionCount,
		}
	}
	out := make(map[string][]Option, len(keys))
	for _, k := range keys {
		if opts, ok := c.Options(k); ok {
			out[k] = opts
		}
	}
	return out
}

// Allows reports whether value is one of the options under key.
func (c *Catalog) Allows(key, value string) bool {
	opts, _ := c.Options(key)
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func intOptions(ns []int) []Option {
	out := make([]Option, len(ns))
	for i, n := range ns {
		s := strconv.Itoa(n)
		out[i] = Option{Value: s, Label: s}
	}
	return out
}
