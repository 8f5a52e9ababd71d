package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/soaringjerry/SurveyFlow/internal/log"
)

const DefaultAIDelay = 2 * time.Second

// ScreenerGenerator runs the simulated AI screener generation. A run waits a fixed delay and
// then commits success or failure through the flow service. Runs are not cancellable and
// concurrent triggers for one flow share a single run.
type ScreenerGenerator struct {
	flows    *FlowService
	delay    time.Duration
	sleep    func(time.Duration)
	generate func(FlowState) ([]Screener, error)
	now      func() time.Time
	group    singleflight.Group
}

func NewScreenerGenerator(flows *FlowService, delay time.Duration) *ScreenerGenerator {
	if delay < 0 {
		delay = DefaultAIDelay
	}
	return &ScreenerGenerator{
		flows:    flows,
		delay:    delay,
		sleep:    time.Sleep,
		generate: cannedScreeners,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func cannedScreeners(f FlowState) ([]Screener, error) {
	pattern := ScreenerPatternSingle
	if f.Requirement != nil {
		pattern = f.Requirement.ScreenerPattern
	}
	if pattern == ScreenerPatternMultiple && len(f.Categories) == 0 {
		return nil, NewInvalidError("screener generation failed: no categories selected")
	}
	return GenerateAIScreeners(pattern, f.Categories), nil
}

// Start marks the task pending and launches the run. The returned channel closes when the run
// has committed its result. The run outlives the caller's context.
func (g *ScreenerGenerator) Start(ctx context.Context, tenantID, flowID string) (GenerationTask, <-chan struct{}, error) {
	f, err := g.flows.Get(tenantID, flowID)
	if err != nil {
		return GenerationTask{}, nil, err
	}
	task := f.ScreenerGeneration
	if task.Status != TaskPending {
		task = GenerationTask{Status: TaskPending, StartedAt: g.now()}
		if _, err := g.flows.Dispatch(ctx, tenantID, flowID, SetScreenerGeneration{Task: task}); err != nil {
			return GenerationTask{}, nil, err
		}
	}
	bg := context.WithoutCancel(ctx)
	ch := g.group.DoChan(flowID, func() (any, error) {
		return nil, g.run(bg, tenantID, flowID, task.StartedAt)
	})
	done := make(chan struct{})
	go func() {
		<-ch
		close(done)
	}()
	return task, done, nil
}

func (g *ScreenerGenerator) run(ctx context.Context, tenantID, flowID string, started time.Time) error {
	g.sleep(g.delay)
	f, err := g.flows.Get(tenantID, flowID)
	if err != nil {
		log.Warnf("flow %s: screener generation finished for missing flow: %v", flowID, err)
		return err
	}
	task := GenerationTask{StartedAt: started, FinishedAt: g.now()}
	screeners, genErr := g.generate(*f)
	if genErr != nil {
		task.Status = TaskFailure
		task.Message = genErr.Error()
		log.WithFields(log.Fields{"flow": flowID}).Warnf("screener generation failed: %v", genErr)
	} else {
		task.Status = TaskSuccess
		task.Message = "Generated screening questions"
	}
	_, err = g.flows.Dispatch(ctx, tenantID, flowID, SetScreenerGeneration{Task: task, Screeners: screeners})
	return err
}

func (g *ScreenerGenerator) Status(tenantID, flowID string) (GenerationTask, error) {
	f, err := g.flows.Get(tenantID, flowID)
	if err != nil {
		return GenerationTask{}, err
	}
	return f.ScreenerGeneration, nil
}
