package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("fallback to en failed: %s", got)
	}
	if got := T("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo: %s", got)
	}
}

func TestT_StepLabels(t *testing.T) {
	if got := T("zh", "step.flow-review"); got != "审核" {
		t.Fatalf("zh label: %s", got)
	}
	if got := T("en", "step.screener-configuration"); got != "Screener Configuration" {
		t.Fatalf("en label: %s", got)
	}
}
