package utils

import (
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	const key = "_SURVEYFLOW_TEST_SAFEENV"
	t.Setenv(key, "")
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv(key, " value ")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	const key = "_SURVEYFLOW_TEST_BOOL"
	t.Setenv(key, "off")
	if EnvBool(key, true) {
		t.Fatalf("off should be false")
	}
	t.Setenv(key, "YES")
	if !EnvBool(key, false) {
		t.Fatalf("YES should be true")
	}
	t.Setenv(key, "maybe")
	if !EnvBool(key, true) {
		t.Fatalf("garbage should keep fallback")
	}
}

func TestEnvDuration(t *testing.T) {
	const key = "_SURVEYFLOW_TEST_DURATION"
	t.Setenv(key, "1500ms")
	if got := EnvDuration(key, time.Second); got != 1500*time.Millisecond {
		t.Fatalf("got %v", got)
	}
	t.Setenv(key, "3")
	if got := EnvDuration(key, time.Second); got != 3*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv(key, "soon")
	if got := EnvDuration(key, time.Second); got != time.Second {
		t.Fatalf("got %v", got)
	}
}
