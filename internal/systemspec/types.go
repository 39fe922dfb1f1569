package systemspec

// Priority orders build work: P0 immediately, P1 weeks 2-3, P2 week 4+, P3 backlog.
type Priority string

const (
	P0 Priority = "P0"
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
)

// Priorities lists every priority in build order.
var Priorities = []Priority{P0, P1, P2, P3}

// Rank returns 0 for P0 through 3 for P3, and 4 for unknown values.
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return len(Priorities)
}

// Label describes when a priority gets built.
func (p Priority) Label() string {
	switch p {
	case P0:
		return "Build immediately"
	case P1:
		return "Weeks 2-3"
	case P2:
		return "Week 4+"
	case P3:
		return "Backlog"
	}
	return string(p)
}

// Category is the business area a system serves.
type Category string

const (
	CategoryDelivery    Category = "delivery"
	CategorySales       Category = "sales"
	CategoryClientComms Category = "clientComms"
	CategoryOperations  Category = "operations"
	CategoryQuality     Category = "quality"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryDelivery, CategorySales, CategoryClientComms, CategoryOperations, CategoryQuality}

// SystemType describes what kind of artifact gets built.
type SystemType string

const (
	TypeAutomation    SystemType = "automation"
	TypeDocumentation SystemType = "documentation"
	TypeDashboard     SystemType = "dashboard"
	TypePlaybook      SystemType = "playbook"
	TypeIntegration   SystemType = "integration"
)

// PRD is the mini product brief for a system.
type PRD struct {
	Problem        string   `json:"problem"`
	Solution       string   `json:"solution"`
	Workflow       []string `json:"workflow"`
	SuccessMetrics []string `json:"successMetrics"`
}

// System is one recommended build.
type System struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                SystemType `json:"type"`
	Priority            Priority   `json:"priority"`
	Category            Category   `json:"category"`
	Description         string     `json:"description"`
	EstimatedBuildTime  string     `json:"estimatedBuildTime"`
	EstimatedBuildHours int        `json:"estimatedBuildHours"`
	OwnerTimeReclaimed  float64    `json:"ownerTimeReclaimed"`
	Integrations        []string   `json:"integrations"`
	PRD                 PRD        `json:"prd"`
}

// GapPriority ranks missing information.
type GapPriority string

const (
	GapCritical  GapPriority = "critical"
	GapImportant GapPriority = "important"
	GapNormal    GapPriority = "normal"
)

// GapPriorities lists gap priorities, most urgent first.
var GapPriorities = []GapPriority{GapCritical, GapImportant, GapNormal}

func (g GapPriority) rank() int {
	for i, v := range GapPriorities {
		if v == g {
			return i
		}
	}
	return len(GapPriorities)
}

// Gap is missing or thin information to chase on the discovery call.
type Gap struct {
	Field     string      `json:"field"`
	Label     string      `json:"label"`
	Priority  GapPriority `json:"priority"`
	Reason    string      `json:"reason"`
	Questions []string    `json:"questions"`
}

// Integration is a client tool the systems will connect to.
type Integration struct {
	Tool       string   `json:"tool"`
	Category   string   `json:"category"`
	Purpose    string   `json:"purpose"`
	Priority   string   `json:"priority"`
	RequiredBy []string `json:"requiredBy"`
}

// Coverage is the estimated share of each area already systematized, 0-100.
type Coverage struct {
	Delivery    int `json:"delivery"`
	Sales       int `json:"sales"`
	ClientComms int `json:"clientComms"`
	Operations  int `json:"operations"`
	Quality     int `json:"quality"`
	Overall     int `json:"overall"`
}

// Get returns the coverage for c.
func (cv Coverage) Get(c Category) int {
	switch c {
	case CategoryDelivery:
		return cv.Delivery
	case CategorySales:
		return cv.Sales
	case CategoryClientComms:
		return cv.ClientComms
	case CategoryOperations:
		return cv.Operations
	case CategoryQuality:
		return cv.Quality
	}
	return 0
}

// PlannedSystem is a system scheduled into a week.
type PlannedSystem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Priority   Priority `json:"priority"`
	BuildHours int      `json:"buildHours"`
}

// WeekPlan is one week of the build template.
type WeekPlan struct {
	Week         int             `json:"week"`
	Theme        string          `json:"theme"`
	Focus        Priority        `json:"focus"`
	Systems      []PlannedSystem `json:"systems"`
	Deliverables []string        `json:"deliverables"`
	BuildHours   int             `json:"buildHours"`
}

// Summary totals the output.
type Summary struct {
	TotalSystems         int              `json:"totalSystems"`
	ByPriority           map[Priority]int `json:"byPriority"`
	TotalBuildHours      int              `json:"totalBuildHours"`
	WeeklyHoursReclaimed float64          `json:"weeklyHoursReclaimed"`
	PrimaryFocus         Category         `json:"primaryFocus,omitempty"`
	AutomationCoverage   int              `json:"automationCoverage"`
}

// Output is the full system specification for a client.
type Output struct {
	Summary             Summary       `json:"summary"`
	Systems             []System      `json:"systems"`
	Integrations        []Integration `json:"integrations"`
	Gaps                []Gap         `json:"gaps"`
	AutomationCoverage  Coverage      `json:"automationCoverage"`
	WeekByWeekBuildPlan []WeekPlan    `json:"weekByWeekBuildPlan"`
	Backlog             []string      `json:"backlog"`
}

// CountPriority returns how many systems carry p.
func (o Output) CountPriority(p Priority) int {
	n := 0
	for _, s := range o.Systems {
		if s.Priority == p {
			n++
		}
	}
	return n
}

// HasSystem reports whether a system with id was produced.
func (o Output) HasSystem(id string) bool {
	for _, s := range o.Systems {
		if s.ID == id {
			return true
		}
	}
	return false
}
