package diagnostic

import (
	"fmt"

	"exitlayer/internal/audit"
	"exitlayer/internal/scoring"
	"exitlayer/internal/shared/util"
)

// Severity is the threshold band a dimension falls into.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityStrength Severity = "strength"
)

const maxNextSteps = 5

// SeverityFor maps a score to its band: below 50 critical, 50 to 70 warning, above 70 strength.
func SeverityFor(score int) Severity {
	switch scoring.Band(score) {
	case "critical":
		return SeverityCritical
	case "warning":
		return SeverityWarning
	default:
		return SeverityStrength
	}
}

// Section is one dimension's finding.
type Section struct {
	Dimension scoring.Dimension `json:"dimension"`
	Title     string            `json:"title"`
	Score     int               `json:"score"`
	Severity  Severity          `json:"severity"`
	Assessed  bool              `json:"assessed"`
	Headline  string            `json:"headline"`
	Body      string            `json:"body"`
	Evidence  []string          `json:"evidence"`
	Actions   []string          `json:"actions"`
}

// FinancialSnapshot is the money view of the report.
type FinancialSnapshot struct {
	AnnualRevenue      float64 `json:"annualRevenue"`
	OwnerHourlyValue   float64 `json:"ownerHourlyValue"`
	CurrentValuation   float64 `json:"currentValuation"`
	PotentialValuation float64 `json:"potentialValuation"`
	ValueGap           float64 `json:"valueGap"`
	Narrative          string  `json:"narrative"`
}

// Report is the client-facing diagnostic.
type Report struct {
	Title              string            `json:"title"`
	CompanyName        string            `json:"companyName"`
	ContactName        string            `json:"contactName"`
	OverallScore       int               `json:"overallScore"`
	Readiness          string            `json:"readiness"`
	Summary            string            `json:"summary"`
	Financial          FinancialSnapshot `json:"financial"`
	Sections           []Section         `json:"sections"`
	PrimaryConstraint  string            `json:"primaryConstraint"`
	HighestOpportunity string            `json:"highestOpportunity"`
	NextSteps          []string          `json:"nextSteps"`
}

// Generate builds the diagnostic report. Same inputs always yield the same report.
func Generate(resp audit.Response, score scoring.Score) Report {
	company := resp.CompanyName()
	if company == "" {
		company = "Your agency"
	}
	rep := Report{
		Title:        fmt.Sprintf("ExitLayer Diagnostic: %s", company),
		CompanyName:  company,
		ContactName:  resp.ContactName(),
		OverallScore: score.Overall,
		Readiness:    readiness(score.Overall),
		Sections:     make([]Section, 0, len(scoring.DimensionOrder)),
		NextSteps:    []string{},
	}
	rep.Summary = fmt.Sprintf("%s scores %d/100 and is %s. ", company, score.Overall, rep.Readiness)
	if score.PrimaryConstraint != nil {
		rep.PrimaryConstraint = score.PrimaryConstraint.Label
		rep.Summary += fmt.Sprintf("The biggest constraint is %s (%d/100)", score.PrimaryConstraint.Label, score.PrimaryConstraint.Score)
	} else {
		rep.Summary += "Not enough answers were provided to identify a constraint"
	}
	if score.HighestOpportunity != nil {
		rep.HighestOpportunity = score.HighestOpportunity.Label
		rep.Summary += fmt.Sprintf(" and the strongest area is %s (%d/100).", score.HighestOpportunity.Label, score.HighestOpportunity.Score)
	} else {
		rep.Summary += "."
	}

	for _, d := range scoring.DimensionOrder {
		res, _ := score.Result(d)
		sev := SeverityFor(res.Score)
		e := catalog[d][sev]
		sec := Section{
			Dimension: d,
			Title:     d.Label(),
			Score:     res.Score,
			Severity:  sev,
			Assessed:  res.Defined,
			Headline:  e.headline,
			Body:      e.body,
			Evidence:  []string{},
			Actions:   append([]string(nil), e.actions...),
		}
		if !res.Defined {
			sec.Body = "Not enough answers to assess this area. " + e.body
		}
		for _, drv := range res.Drivers {
			sec.Evidence = append(sec.Evidence, fmt.Sprintf("%s: %d/100", drv.Label, drv.Score))
		}
		rep.Sections = append(rep.Sections, sec)
	}

	rep.Financial = snapshot(score.FinancialMetrics)
	rep.NextSteps = nextSteps(rep.Sections)
	return rep
}

func readiness(overall int) string {
	switch scoring.Band(overall) {
	case "critical":
		return "at risk"
	case "warning":
		return "developing"
	default:
		return "exit-ready"
	}
}

func snapshot(fm scoring.FinancialMetrics) FinancialSnapshot {
	s := FinancialSnapshot{
		AnnualRevenue:      fm.AnnualRevenue,
		OwnerHourlyValue:   fm.OwnerHourlyValue,
		CurrentValuation:   fm.CurrentValuation,
		PotentialValuation: fm.PotentialValuation,
		ValueGap:           fm.ValueGap,
	}
	if fm.AnnualRevenue == 0 {
		s.Narrative = "Revenue was not provided, so valuation figures are not available."
		return s
	}
	s.Narrative = fmt.Sprintf(
		"Each hour you work is worth about %s of monthly revenue. At a %.1fx multiple the business is worth roughly %s today; closing the gap to %.1fx adds %s.",
		util.Money(fm.OwnerHourlyValue), fm.CurrentExitMultiple, util.Money(fm.CurrentValuation), fm.TargetExitMultiple, util.Money(fm.ValueGap),
	)
	return s
}

const unassessedStep = "Finish the questionnaire so every area of the business can be scored"

// nextSteps takes the first action of each assessed critical section, then
// each assessed warning section. Unanswered areas sit at the neutral score
// and produce no actions.
func nextSteps(sections []Section) []string {
	out := []string{}
	assessed := 0
	for _, s := range sections {
		if s.Assessed {
			assessed++
		}
	}
	if assessed == 0 {
		return append(out, unassessedStep)
	}
	for _, sev := range []Severity{SeverityCritical, SeverityWarning} {
		for _, s := range sections {
			if !s.Assessed || s.Severity != sev || len(s.Actions) == 0 {
				continue
			}
			out = append(out, s.Actions[0])
			if len(out) == maxNextSteps {
				return out
			}
		}
	}
	if len(out) == 0 {
		out = append(out, "Book a build sprint to lock in your strengths with documented systems")
	}
	return out
}
