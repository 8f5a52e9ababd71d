package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("generation did not finish")
	}
}

func TestScreenerGeneratorSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc, _, _ := newTestFlowService()
	ctx, cancel := context.WithCancel(context.Background())
	f, _ := svc.Create("t1", "")
	if _, err := svc.Dispatch(ctx, "t1", f.ID, SetCategories{IDs: []string{"tech", "hr"}}); err != nil {
		t.Fatalf("set categories: %v", err)
	}
	if _, err := svc.Dispatch(ctx, "t1", f.ID, SelectRequirement{ID: 4}); err != nil {
		t.Fatalf("select requirement: %v", err)
	}
	gen := NewScreenerGenerator(svc, 0)

	task, done, err := gen.Start(ctx, "t1", f.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if task.Status != TaskPending {
		t.Fatalf("want pending, got %s", task.Status)
	}
	cancel() // the run must not depend on the request context
	waitDone(t, done)

	got, err := gen.Status("t1", f.ID)
	if err != nil || got.Status != TaskSuccess {
		t.Fatalf("want success, got %+v %v", got, err)
	}
	flow, _ := svc.Get("t1", f.ID)
	if len(flow.Screeners) != 2 || QuestionCount(flow.Screeners) != 10 {
		t.Fatalf("unexpected screeners: %+v", flow.Screeners)
	}
}

func TestScreenerGeneratorFailureKeepsScreeners(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc, _, _ := newTestFlowService()
	ctx := context.Background()
	f, _ := svc.Create("t1", "")
	if _, err := svc.Dispatch(ctx, "t1", f.ID, RegenerateScreeners{}); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if _, err := svc.Dispatch(ctx, "t1", f.ID, SelectRequirement{ID: 5}); err != nil {
		t.Fatalf("select: %v", err)
	}
	gen := NewScreenerGenerator(svc, 0)
	_, done, err := gen.Start(ctx, "t1", f.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, done)

	flow, _ := svc.Get("t1", f.ID)
	if flow.ScreenerGeneration.Status != TaskFailure || flow.ScreenerGeneration.Message == "" {
		t.Fatalf("want failure with message, got %+v", flow.ScreenerGeneration)
	}
	if len(flow.Screeners) != 1 || flow.Screeners[0].ID != GeneralScreenerID {
		t.Fatalf("screeners changed on failure: %+v", flow.Screeners)
	}
}

func TestScreenerGeneratorSharesConcurrentRuns(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc, _, _ := newTestFlowService()
	ctx := context.Background()
	f, _ := svc.Create("t1", "")
	gen := NewScreenerGenerator(svc, time.Second)
	release := make(chan struct{})
	var slept time.Duration
	gen.sleep = func(d time.Duration) {
		slept = d
		<-release
	}
	var runs int32
	gen.generate = func(fs FlowState) ([]Screener, error) {
		atomic.AddInt32(&runs, 1)
		return cannedScreeners(fs)
	}

	_, first, err := gen.Start(ctx, "t1", f.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	task, second, err := gen.Start(ctx, "t1", f.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if task.Status != TaskPending {
		t.Fatalf("second trigger should observe pending, got %s", task.Status)
	}
	close(release)
	waitDone(t, first)
	waitDone(t, second)
	if n := atomic.LoadInt32(&runs); n != 1 {
		t.Fatalf("want 1 run, got %d", n)
	}
	if slept != time.Second {
		t.Fatalf("unexpected delay %v", slept)
	}
}

func TestScreenerGeneratorUnknownFlow(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc, _, _ := newTestFlowService()
	gen := NewScreenerGenerator(svc, 0)
	if _, _, err := gen.Start(context.Background(), "t1", "missing"); err == nil {
		t.Fatalf("expected not found")
	}
}
