package questionnaire

import (
	"exitlayer/internal/audit"
)

// Sections returns a copy of the ordered section catalog.
func Sections() []Section {
	out := make([]Section, len(catalog))
	for i, s := range catalog {
		s.Questions = append([]Question(nil), s.Questions...)
		out[i] = s
	}
	return out
}

// Questions returns every question in catalog order.
func Questions() []Question {
	var out []Question
	for _, s := range catalog {
		out = append(out, s.Questions...)
	}
	return out
}

// Keys returns every answer key in catalog order.
func Keys() []string {
	qs := Questions()
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.Key
	}
	return keys
}

// Lookup finds a question by key.
func Lookup(key string) (Question, bool) {
	q, ok := byKey[key]
	return q, ok
}

// Visible reports whether q should be shown given the answers so far.
func Visible(q Question, answers audit.Response) bool {
	if q.ShowIf == nil {
		return true
	}
	return q.ShowIf.Matches(answers)
}

// VisibleQuestions returns the questions currently shown, in order.
func VisibleQuestions(answers audit.Response) []Question {
	var out []Question
	for _, q := range Questions() {
		if Visible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}

// ProgressOf counts answered visible questions and required gaps.
func ProgressOf(answers audit.Response) Progress {
	p := Progress{RequiredMissing: []string{}}
	for _, q := range VisibleQuestions(answers) {
		p.Visible++
		if answers.Has(q.Key) {
			p.Answered++
			continue
		}
		if q.Required {
			p.RequiredMissing = append(p.RequiredMissing, q.Key)
		}
	}
	if p.Visible > 0 {
		p.Percent = p.Answered * 100 / p.Visible
	}
	return p
}

// PruneHidden drops answers to catalog questions that are no longer visible.
// Unknown keys are kept so callers can carry extra context.
func PruneHidden(answers audit.Response) audit.Response {
	out := answers.Clone()
	for _, q := range Questions() {
		if _, ok := out[q.Key]; ok && !Visible(q, answers) {
			delete(out, q.Key)
		}
	}
	return out
}
