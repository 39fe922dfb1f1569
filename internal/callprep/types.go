package callprep

// QuickContext is the one-glance summary at the top of the call sheet.
type QuickContext struct {
	Company           string  `json:"company"`
	Contact           string  `json:"contact"`
	Email             string  `json:"email"`
	Role              string  `json:"role,omitempty"`
	AnnualRevenue     float64 `json:"annualRevenue"`
	TeamSize          float64 `json:"teamSize"`
	OwnerWeeklyHours  float64 `json:"ownerWeeklyHours"`
	OwnerHourlyValue  float64 `json:"ownerHourlyValue"`
	OverallScore      int     `json:"overallScore"`
	PrimaryConstraint string  `json:"primaryConstraint,omitempty"`
	ExitTimeline      string  `json:"exitTimeline,omitempty"`
}

// Hypothesis is a candidate system to pitch, ordered by Priority (1 first).
type Hypothesis struct {
	Priority       int     `json:"priority"`
	SystemID       string  `json:"systemId"`
	Name           string  `json:"name"`
	Rationale      string  `json:"rationale"`
	HoursReclaimed float64 `json:"hoursReclaimed"`
}

// Mechanism is a guess at how the owner ends up as the bottleneck.
type Mechanism struct {
	Mechanism string `json:"mechanism"`
	Evidence  string `json:"evidence"`
}

// RedFlag pairs an inconsistency in the answers with the question that probes it.
type RedFlag struct {
	ID          string `json:"id"`
	Observation string `json:"observation"`
	Probe       string `json:"probe"`
}

// Section is a block of the call script.
type Section struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Minutes   int      `json:"minutes"`
	Questions []string `json:"questions"`
	ListenFor []string `json:"listenFor"`
}

// QuickWin is something we can offer to fix during or right after the call.
type QuickWin struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Effort      string `json:"effort"`
}

// Document is the full call-prep sheet.
type Document struct {
	QuickContext        QuickContext `json:"quickContext"`
	BuildHypothesis     []Hypothesis `json:"buildHypothesis"`
	MechanismHypothesis []Mechanism  `json:"mechanismHypothesis"`
	CallSections        []Section    `json:"callSections"`
	RedFlags            []RedFlag    `json:"redFlags"`
	ShowMeRequests      []string     `json:"showMeRequests"`
	QuickWins           []QuickWin   `json:"quickWins"`
	PostCallNeeds       []string     `json:"postCallNeeds"`
}
