package systemspec

import (
	"math"
	"strings"

	"exitlayer/internal/audit"
)

func automationCoverage(r audit.Response) Coverage {
	c := Coverage{
		Delivery:    deliveryCoverage(r),
		Sales:       salesCoverage(r),
		ClientComms: commsCoverage(r),
		Operations:  opsCoverage(r),
		Quality:     qualityCoverage(r),
	}
	c.Overall = int(math.Round(float64(c.Delivery+c.Sales+c.ClientComms+c.Operations+c.Quality) / 5))
	return c
}

func deliveryCoverage(r audit.Response) int {
	v := 0.4 * r.Number("documented_pct")
	if r.HasNumber("owner_involvement_pct") {
		v += 0.3 * (100 - r.Number("owner_involvement_pct"))
	}
	if r.IsYes("team_can_onboard") {
		v += 30
	}
	return pctClamp(v)
}

func salesCoverage(r audit.Response) int {
	var v float64
	switch strings.ToLower(r.String("crm")) {
	case "", "none":
	case "spreadsheet":
		v += 15
	default:
		v += 40
	}
	if r.IsYes("sales_process_documented") {
		v += 30
	}
	if strings.Contains(strings.ToLower(r.String("proposal_process")), "template") {
		v += 30
	}
	return pctClamp(v)
}

func commsCoverage(r audit.Response) int {
	var v float64
	switch strings.ToLower(r.String("reporting_process")) {
	case "automated":
		v += 50
	case "manual":
		v += 20
	}
	switch strings.ToLower(r.String("client_comm_cadence")) {
	case "weekly", "bi-weekly":
		v += 30
	case "monthly":
		v += 20
	}
	for _, t := range clientTools(r) {
		if t.category == ToolCommunication {
			v += 20
			break
		}
	}
	return pctClamp(v)
}

func opsCoverage(r audit.Response) int {
	var v float64
	switch r.YesNo("has_sops") {
	case "Yes":
		v += 40
	case "Partial":
		v += 20
	}
	if r.IsYes("has_ops_manager") {
		v += 30
	}
	v += 6 * math.Min(5, math.Max(0, r.Number("automation_level")))
	return pctClamp(v)
}

func qualityCoverage(r audit.Response) int {
	var v float64
	if r.IsYes("qa_process") {
		v += 60
	}
	if r.IsYes("has_case_studies") {
		v += 20
	}
	v += 0.2 * r.Number("service_standardization_pct")
	return pctClamp(v)
}

func pctClamp(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
