package ingest

import (
	"context"
	"fmt"
	"time"
)

// Step records one job's outcome inside a full run.
type Step struct {
	Name   string     `json:"name"`
	OK     bool       `json:"ok"`
	Ms     int64      `json:"ms"`
	Error  string     `json:"error,omitempty"`
	Result *JobResult `json:"result,omitempty"`
}

// RunReport is the full-sync outcome. There is deliberately no aggregate
// success flag: callers inspect Steps to learn what actually refreshed.
type RunReport struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Steps      []Step    `json:"steps"`
}

// fullSyncOrder is the fixed job sequence: the spreadsheet-backed job first,
// then the Omie resources in dependency order.
var fullSyncOrder = []string{
	EntityOperationsSheet,
	EntityCategories,
	EntityParties,
	EntityProjects,
	EntityPayables,
	EntityMovements,
}

// RunFullSync runs every job in sequence, best-effort across sources: a
// failing job is captured in its step and the remaining jobs still run. The
// call itself never fails.
func (s *Service) RunFullSync(ctx context.Context) RunReport {
	const component = "Orchestrator"

	report := RunReport{StartedAt: s.now()}
	s.log.Info(component, "Full sync started: jobs=%d", len(fullSyncOrder))

	for _, entity := range fullSyncOrder {
		report.Steps = append(report.Steps, s.runStep(ctx, entity))
	}

	report.FinishedAt = s.now()
	s.log.Info(component, "Full sync finished: elapsed=%s", report.FinishedAt.Sub(report.StartedAt))
	return report
}

func (s *Service) runStep(ctx context.Context, entity string) (step Step) {
	const component = "Orchestrator"
	start := time.Now()

	step = Step{Name: entity}
	defer func() {
		step.Ms = time.Since(start).Milliseconds()
		if r := recover(); r != nil {
			step.OK = false
			step.Result = nil
			step.Error = fmt.Sprintf("panic: %v", r)
			s.log.Error(component, "Job panicked: name=%s panic=%v", entity, r)
		}
	}()

	result, err := s.RunEntitySync(ctx, entity, Options{})
	if err != nil {
		step.Error = err.Error()
		s.log.Error(component, "Job failed: name=%s err=%v", entity, err)
		return step
	}

	step.OK = true
	step.Result = &result
	return step
}
