package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// ExportLiveLinksCSV renders the live links with their geography and category associations.
func ExportLiveLinksCSV(links []LiveLink) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "label", "url", "geography", "category"})
	for _, l := range links {
		if err := w.Write([]string{l.ID, l.Label, l.URL, l.GeographyID, l.CategoryID}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportPricingCSV renders one row per payment config followed by the aggregate lines.
func ExportPricingCSV(configs []PaymentConfig) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"id", "geography", "category", "seniority", "company_size", "interview_minutes",
		"expected_responses", "geography_multiplier", "professional_premium",
		"seniority_multiplier", "company_size_multiplier", "amount", "total_cost",
	})
	for _, c := range configs {
		rec := []string{
			c.ID,
			c.Geography,
			c.Category,
			string(c.Seniority),
			string(c.CompanySize),
			strconv.Itoa(c.InterviewMinutes),
			strconv.Itoa(c.ExpectedResponses),
			ftoa(c.GeographyMultiplier),
			ftoa(c.ProfessionalPremium),
			ftoa(c.SeniorityMultiplier),
			ftoa(c.CompanySizeMultiplier),
			money(c.Amount),
			money(c.TotalCost),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	sum := SummarizePricing(configs)
	blank := make([]string, 11)
	for _, line := range [][2]string{
		{"subtotal", money(sum.Subtotal)},
		{"service_charge", money(sum.ServiceCharge)},
		{"grand_total", money(sum.GrandTotal)},
	} {
		rec := append([]string{line[0]}, blank...)
		rec = append(rec, line[1])
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func money(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
