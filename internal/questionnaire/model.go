package questionnaire

import (
	"strings"

	"exitlayer/internal/audit"
)

// QuestionType identifies how a question is rendered and how its answer is shaped.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeTextarea    QuestionType = "textarea"
	TypeEmail       QuestionType = "email"
	TypeURL         QuestionType = "url"
	TypeNumber      QuestionType = "number"
	TypeCurrency    QuestionType = "currency"
	TypePercent     QuestionType = "percent"
	TypeSelect      QuestionType = "select"
	TypeMultiSelect QuestionType = "multiselect"
	TypeYesNo       QuestionType = "yesno"
	TypeScale       QuestionType = "scale"
	TypeServices    QuestionType = "services"
)

// Condition gates a question on an earlier answer.
type Condition struct {
	Field     string      `json:"field,omitempty"`
	Equals    string      `json:"equals,omitempty"`
	NotEquals string      `json:"notEquals,omitempty"`
	All       []Condition `json:"all,omitempty"`
}

// Question is a single questionnaire field.
type Question struct {
	Key         string       `json:"key"`
	Label       string       `json:"label"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Help        string       `json:"help,omitempty"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	ShowIf      *Condition   `json:"showIf,omitempty"`
}

// Section groups related questions.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Progress summarizes how far a draft has come.
type Progress struct {
	Answered        int      `json:"answered"`
	Visible         int      `json:"visible"`
	RequiredMissing []string `json:"requiredMissing"`
	Percent         int      `json:"percent"`
}

// Matches evaluates the condition against accumulated answers.
// An empty condition always matches.
func (c Condition) Matches(answers audit.Response) bool {
	for _, sub := range c.All {
		if !sub.Matches(answers) {
			return false
		}
	}
	if c.Field == "" {
		return true
	}
	if c.Equals != "" && !answerEquals(answers, c.Field, c.Equals) {
		return false
	}
	if c.NotEquals != "" && answerEquals(answers, c.Field, c.NotEquals) {
		return false
	}
	if c.Equals == "" && c.NotEquals == "" {
		return answers.Has(c.Field)
	}
	return true
}

func answerEquals(answers audit.Response, field, want string) bool {
	if list, ok := answers[field].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && strings.EqualFold(strings.TrimSpace(s), want) {
				return true
			}
		}
		return false
	}
	if yn := answers.YesNo(field); yn != "" {
		if norm := (audit.Response{"v": want}).YesNo("v"); norm != "" {
			return yn == norm
		}
	}
	return answers.Equals(field, want)
}

func ptr(v float64) *float64 { return &v }
