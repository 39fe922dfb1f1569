package audit

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Reserved payload keys carried alongside the questionnaire answers.
const (
	KeyAnalytics        = "_analytics"
	KeyAnalyticsSession = "_analyticsSession"
	KeySessionToken     = "_session_token"
	KeyValuation        = "_valuation"
)

var reservedKeys = map[string]struct{}{
	KeyAnalytics:        {},
	KeyAnalyticsSession: {},
	KeySessionToken:     {},
	KeyValuation:        {},
}

// IsReserved reports whether key is a transport key rather than an answer.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Response is the flat answer map submitted by a prospect. Lookups never fail:
// missing or malformed values read as zero values.
type Response map[string]any

// Service is one row of the services sub-table.
type Service struct {
	Name           string  `json:"name"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	HoursPerWeek   float64 `json:"hoursPerWeek"`
	Price          float64 `json:"price"`
	Delivery       string  `json:"delivery,omitempty"`
}

// Reserved holds the transport keys split out of a submission.
type Reserved struct {
	Analytics        any    `json:"_analytics,omitempty"`
	AnalyticsSession any    `json:"_analyticsSession,omitempty"`
	SessionToken     string `json:"_session_token,omitempty"`
	Valuation        any    `json:"_valuation,omitempty"`
}

// Split separates reserved keys from answers. The receiver is not modified.
func (r Response) Split() (Response, Reserved) {
	answers := make(Response, len(r))
	var reserved Reserved
	for k, v := range r {
		switch k {
		case KeyAnalytics:
			reserved.Analytics = v
		case KeyAnalyticsSession:
			reserved.AnalyticsSession = v
		case KeySessionToken:
			if s, ok := v.(string); ok {
				reserved.SessionToken = strings.TrimSpace(s)
			}
		case KeyValuation:
			reserved.Valuation = v
		default:
			answers[k] = v
		}
	}
	return answers, reserved
}

// Clone returns a shallow copy.
func (r Response) Clone() Response {
	out := make(Response, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether key carries a non-empty answer.
func (r Response) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	case bool:
		return true
	default:
		_, ok := toNumber(v)
		return ok
	}
}

// Number returns the numeric value of key or 0.
func (r Response) Number(key string) float64 {
	return r.NumberOr(key, 0)
}

// NumberOr returns the numeric value of key or def when absent or unparsable.
func (r Response) NumberOr(key string, def float64) float64 {
	if n, ok := toNumber(r[key]); ok {
		return n
	}
	return def
}

// HasNumber reports whether key holds a parsable number.
func (r Response) HasNumber(key string) bool {
	_, ok := toNumber(r[key])
	return ok
}

// String returns the trimmed string form of key.
func (r Response) String(key string) string {
	return r.StringOr(key, "")
}

// StringOr returns the trimmed string form of key or def.
func (r Response) StringOr(key, def string) string {
	switch v := r[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	}
	return def
}

// TextLen returns the rune length of the trimmed text answer.
func (r Response) TextLen(key string) int {
	return len([]rune(r.String(key)))
}

// Strings returns a list answer. Comma or newline separated strings are split.
func (r Response) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return compact(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return compact(out)
	case string:
		return compact(strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' }))
	}
	return nil
}

// Contains reports whether the list answer at key includes option, case-insensitively.
func (r Response) Contains(key, option string) bool {
	for _, item := range r.Strings(key) {
		if strings.EqualFold(item, option) {
			return true
		}
	}
	return false
}

// YesNo normalizes a yes/no/partial answer. Unknown values read as "".
func (r Response) YesNo(key string) string {
	if b, ok := r[key].(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	switch strings.ToLower(r.String(key)) {
	case "yes", "y", "true":
		return "Yes"
	case "no", "n", "false":
		return "No"
	case "partial", "partially", "some", "sort of":
		return "Partial"
	}
	return ""
}

// IsYes reports an explicit Yes.
func (r Response) IsYes(key string) bool { return r.YesNo(key) == "Yes" }

// IsNo reports an explicit No.
func (r Response) IsNo(key string) bool { return r.YesNo(key) == "No" }

// Equals compares the answer at key to value case-insensitively.
func (r Response) Equals(key, value string) bool {
	return strings.EqualFold(r.String(key), strings.TrimSpace(value))
}

// Services decodes the services sub-table, skipping rows without a name.
func (r Response) Services() []Service {
	rows, ok := r["services"].([]any)
	if !ok {
		return nil
	}
	out := make([]Service, 0, len(rows))
	for _, raw := range rows {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		row := Response(m)
		name := row.StringOr("name", row.String("service"))
		if name == "" {
			continue
		}
		out = append(out, Service{
			Name:           name,
			MonthlyRevenue: row.NumberOr("monthlyRevenue", row.Number("revenue")),
			HoursPerWeek:   row.NumberOr("hoursPerWeek", row.Number("hours")),
			Price:          row.Number("price"),
			Delivery:       row.String("delivery"),
		})
	}
	return out
}

// CompanyName returns company_name.
func (r Response) CompanyName() string { return r.String("company_name") }

// ContactName returns full_name, falling back to contact_name.
func (r Response) ContactName() string {
	return r.StringOr("full_name", r.String("contact_name"))
}

// ContactEmail returns email, falling back to contact_email, lowercased.
func (r Response) ContactEmail() string {
	return strings.ToLower(r.StringOr("email", r.String("contact_email")))
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return parseNumeric(n)
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumeric accepts forms like "40", "40%", "$1,200,000", "150k", "1.2m".
func parseNumeric(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "", "+", "").Replace(s)
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f * mult)
}
