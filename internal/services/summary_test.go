package services

import (
	"testing"
	"time"
)

func TestReviewFlow(t *testing.T) {
	s := mustReduce(t, NewFlowState("f1", ""),
		AddPaymentConfig{Geography: "us"},
		CommitPricing{},
		RegenerateScreeners{},
		ToggleParticipant{LiveLinkID: "live-1", ParticipantID: "p3"},
		GoTo{Step: StepFlowReview},
	)
	r := ReviewFlow(s)
	if r.Requirement == nil || r.Requirement.ID != 1 {
		t.Fatalf("unexpected requirement: %+v", r.Requirement)
	}
	if r.ScreenerCount != 1 || r.QuestionCount != 3 {
		t.Fatalf("unexpected screener counts: %d/%d", r.ScreenerCount, r.QuestionCount)
	}
	if len(r.Screeners[0].Preview) != 2 || r.Screeners[0].More != 1 {
		t.Fatalf("unexpected preview: %+v", r.Screeners[0])
	}
	if r.RedirectsComplete {
		t.Fatalf("redirects should be incomplete")
	}
	if r.SelectedParticipants != 1 || !almostEqual(r.Pricing.Subtotal, 3600) {
		t.Fatalf("unexpected totals: %+v", r)
	}
	if r.Progress.Label != "Step 6 of 7" || r.ActivatedAt != nil {
		t.Fatalf("unexpected progress/activation: %+v", r)
	}
}

func TestSimulatePerformanceStable(t *testing.T) {
	s := mustReduce(t, NewFlowState("f1", ""), SetGeographies{IDs: []string{"us", "uk"}}, SelectRequirement{ID: 2})
	s.Status = FlowActive
	s.ActivatedAt = time.Unix(0, 0)
	a := SimulatePerformance(s)
	b := SimulatePerformance(s)
	if a.TotalResponses != 1247 || a.CompletedResponses != 892 || a.ConversionRate != "71.5%" || a.AverageCompletionTime != "8m 32s" {
		t.Fatalf("unexpected headline figures: %+v", a)
	}
	if !a.Active || len(a.Links) != 2 {
		t.Fatalf("unexpected links: %+v", a.Links)
	}
	for i := range a.Links {
		if a.Links[i] != b.Links[i] {
			t.Fatalf("figures not stable: %+v vs %+v", a.Links[i], b.Links[i])
		}
		if a.Links[i].Completions > a.Links[i].Clicks || a.Links[i].Clicks >= 500 {
			t.Fatalf("implausible figures: %+v", a.Links[i])
		}
	}
}
