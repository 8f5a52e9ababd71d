package services

import (
	"encoding/csv"
	"strings"
	"testing"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func TestExportLiveLinksCSV(t *testing.T) {
	links := GenerateLiveLinks("", LinkPatternCategory, nil, []Category{{ID: "tech", Name: "Technology"}, {ID: "hr", Name: "Human Resources"}}, nil)
	b, err := ExportLiveLinksCSV(links)
	if err != nil {
		t.Fatalf("export links: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1+len(links) {
		t.Fatalf("want %d rows, got %d", 1+len(links), len(recs))
	}
	if got := strings.Join(recs[0], ","); got != "id,label,url,geography,category" {
		t.Fatalf("bad header: %s", got)
	}
	if recs[2][0] != "live-cat-hr" || recs[2][4] != "hr" || recs[2][3] != "" {
		t.Fatalf("bad row: %v", recs[2])
	}
}

func TestExportPricingCSV(t *testing.T) {
	pc, err := NewPaymentConfig("pc-1", "uk", 10)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	b, err := ExportPricingCSV([]PaymentConfig{pc})
	if err != nil {
		t.Fatalf("export pricing: %v", err)
	}
	recs, err := readCSV(b)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// header, one row, three aggregate lines
	if len(recs) != 5 {
		t.Fatalf("want 5 rows, got %d", len(recs))
	}
	for i, r := range recs {
		if len(r) != len(recs[0]) {
			t.Fatalf("row %d has %d columns, want %d", i, len(r), len(recs[0]))
		}
	}
	if recs[1][3] != "Entry Level" || recs[1][6] != "100" {
		t.Fatalf("bad config row: %v", recs[1])
	}
	last := recs[4]
	if last[0] != "grand_total" || last[len(last)-1] != money(SummarizePricing([]PaymentConfig{pc}).GrandTotal) {
		t.Fatalf("bad grand total row: %v", last)
	}
}
