package services

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPriceBaseMarket(t *testing.T) {
	got, err := Price("us", SeniorityEntry, CompanySmall, 20)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if !almostEqual(got, 30.00) {
		t.Fatalf("want 30.00, got %v", got)
	}
}

func TestQuoteBreakdownAppliesPremiumOutsideBaseMarket(t *testing.T) {
	b, err := Quote("uk", SeniorityCXO, CompanyEnterprise, 10)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !almostEqual(b.Amount, 91.80) {
		t.Fatalf("want 91.80, got %v", b.Amount)
	}
	if b.ProfessionalPremium != 1.5 || b.GeographyMultiplier != 0.85 {
		t.Fatalf("unexpected multipliers: %+v", b)
	}
	us, _ := Quote("us", SeniorityCXO, CompanyEnterprise, 10)
	if us.ProfessionalPremium != 1 {
		t.Fatalf("base market must not carry premium, got %v", us.ProfessionalPremium)
	}
}

func TestPriceUnknownGeographyUsesParity(t *testing.T) {
	got, err := Price("zz", SeniorityManager, CompanySmall, 10)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	// ratio 1.0, premium 1.5
	if !almostEqual(got, 30.00) {
		t.Fatalf("want 30.00, got %v", got)
	}
}

func TestPriceRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name string
		sen  Seniority
		size CompanySize
		min  int
	}{
		{"seniority", "Intern", CompanySmall, 10},
		{"size", SeniorityVP, "Huge", 10},
		{"minutes", SeniorityVP, CompanySmall, 0},
	}
	for _, c := range cases {
		_, err := Price("us", c.sen, c.size, c.min)
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorInvalid {
			t.Fatalf("%s: expected invalid error, got %v", c.name, err)
		}
	}
}

func TestRoundCentsHalfAwayFromZero(t *testing.T) {
	if got := RoundCents(0.125); !almostEqual(got, 0.13) {
		t.Fatalf("0.125 -> %v", got)
	}
	if got := RoundCents(-0.125); !almostEqual(got, -0.13) {
		t.Fatalf("-0.125 -> %v", got)
	}
	if got := RoundCents(35.99999999999999); !almostEqual(got, 36) {
		t.Fatalf("float noise not absorbed: %v", got)
	}
}

func TestNewPaymentConfigDefaults(t *testing.T) {
	pc, err := NewPaymentConfig("pc-1", "us", 20)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if pc.Category != "tech" || pc.Seniority != SeniorityEntry || pc.CompanySize != CompanySME || pc.ExpectedResponses != 100 {
		t.Fatalf("unexpected defaults: %+v", pc)
	}
	if !almostEqual(pc.Amount, 36) || !almostEqual(pc.TotalCost, 3600) {
		t.Fatalf("unexpected price: amount=%v total=%v", pc.Amount, pc.TotalCost)
	}
}

func TestSummarizePricing(t *testing.T) {
	pc, err := NewPaymentConfig("pc-1", "us", 20)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	pc, err = PaymentConfigPatch{CompanySize: ptr(CompanySmall)}.apply(pc)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	sum := SummarizePricing([]PaymentConfig{pc})
	if !almostEqual(sum.Subtotal, 3000) || !almostEqual(sum.ServiceCharge, 600) || !almostEqual(sum.GrandTotal, 3600) {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !almostEqual(sum.AveragePrice, 30) || sum.TotalResponses != 100 {
		t.Fatalf("unexpected average: %+v", sum)
	}
	if empty := SummarizePricing(nil); empty.AveragePrice != 0 || empty.GrandTotal != 0 {
		t.Fatalf("empty summary must be zero: %+v", empty)
	}
}

func TestPatchRejectsZeroResponses(t *testing.T) {
	pc, _ := NewPaymentConfig("pc-1", "us", 20)
	if _, err := (PaymentConfigPatch{ExpectedResponses: ptr(0)}).apply(pc); err == nil {
		t.Fatalf("expected error for zero responses")
	}
	if _, err := (PaymentConfigPatch{Category: ptr("astrology")}).apply(pc); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func ptr[T any](v T) *T { return &v }
