package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberParsesLooseForms(t *testing.T) {
	resp := Response{
		"a": 40.0,
		"b": "40%",
		"c": "$1,200,000",
		"d": "150k",
		"e": "1.2m",
		"f": json.Number("12.5"),
		"g": "n/a",
		"h": 7,
	}
	cases := map[string]float64{
		"a": 40, "b": 40, "c": 1200000, "d": 150000, "e": 1200000, "f": 12.5, "g": 0, "h": 7, "missing": 0,
	}
	for key, want := range cases {
		t.Run(key, func(t *testing.T) {
			assert.InDelta(t, want, resp.Number(key), 0.0001)
		})
	}
	assert.False(t, resp.HasNumber("g"))
	assert.Equal(t, 3.0, resp.NumberOr("missing", 3))
}

func TestStringsAcceptsListsAndDelimitedText(t *testing.T) {
	resp := Response{
		"list":  []any{"Slack", " HubSpot ", "", 4.0},
		"typed": []string{"Gmail"},
		"text":  "Notion, Zapier\nAsana",
	}
	assert.Equal(t, []string{"Slack", "HubSpot"}, resp.Strings("list"))
	assert.Equal(t, []string{"Gmail"}, resp.Strings("typed"))
	assert.Equal(t, []string{"Notion", "Zapier", "Asana"}, resp.Strings("text"))
	assert.Nil(t, resp.Strings("missing"))
	assert.True(t, resp.Contains("list", "slack"))
}

func TestYesNoNormalizes(t *testing.T) {
	resp := Response{"a": "yes", "b": false, "c": "Partially", "d": "maybe"}
	assert.Equal(t, "Yes", resp.YesNo("a"))
	assert.Equal(t, "No", resp.YesNo("b"))
	assert.Equal(t, "Partial", resp.YesNo("c"))
	assert.Equal(t, "", resp.YesNo("d"))
	assert.Equal(t, "", resp.YesNo("missing"))
}

func TestSplitSeparatesReservedKeys(t *testing.T) {
	resp := Response{
		"company_name":      "Acme",
		KeySessionToken:     " tok-1 ",
		KeyAnalytics:        map[string]any{"src": "ads"},
		KeyAnalyticsSession: "as-1",
		KeyValuation:        map[string]any{"estimate": 1.0},
	}
	answers, reserved := resp.Split()
	require.Len(t, answers, 1)
	assert.Equal(t, "Acme", answers.CompanyName())
	assert.Equal(t, "tok-1", reserved.SessionToken)
	assert.Equal(t, "as-1", reserved.AnalyticsSession)
	assert.NotNil(t, reserved.Analytics)
	assert.NotNil(t, reserved.Valuation)
	assert.Len(t, resp, 5)
}

func TestContactAliases(t *testing.T) {
	resp := Response{"contact_name": "Dana", "contact_email": "Dana@Example.com"}
	assert.Equal(t, "Dana", resp.ContactName())
	assert.Equal(t, "dana@example.com", resp.ContactEmail())

	resp["full_name"] = "Dana Lee"
	assert.Equal(t, "Dana Lee", resp.ContactName())
}

func TestServicesSkipsMalformedRows(t *testing.T) {
	resp := Response{"services": []any{
		map[string]any{"name": "SEO", "monthlyRevenue": "20k", "hoursPerWeek": 10.0},
		map[string]any{"revenue": 5.0},
		"junk",
	}}
	rows := resp.Services()
	require.Len(t, rows, 1)
	assert.Equal(t, "SEO", rows[0].Name)
	assert.Equal(t, 20000.0, rows[0].MonthlyRevenue)
	assert.Equal(t, 10.0, rows[0].HoursPerWeek)
}

func TestHas(t *testing.T) {
	resp := Response{"blank": "  ", "zero": 0.0, "list": []any{}, "flag": false}
	assert.False(t, resp.Has("blank"))
	assert.True(t, resp.Has("zero"))
	assert.False(t, resp.Has("list"))
	assert.True(t, resp.Has("flag"))
	assert.False(t, resp.Has("missing"))
}
