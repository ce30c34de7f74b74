package research

import (
	"context"

	"github.com/riverqueue/river"
)

type AnalyzeProjectArgs struct {
	ProjectID string `json:"project_id"`
}

func (AnalyzeProjectArgs) Kind() string { return "analyze_project" }

// AnalysisRunner is the contract the worker needs from the research service.
type AnalysisRunner interface {
	RunAnalysis(ctx context.Context, projectID string) error
}

type AnalyzeProjectWorker struct {
	river.WorkerDefaults[AnalyzeProjectArgs]
	runner AnalysisRunner
}

func NewAnalyzeProjectWorker(runner AnalysisRunner) *AnalyzeProjectWorker {
	return &AnalyzeProjectWorker{runner: runner}
}

func (w *AnalyzeProjectWorker) Work(ctx context.Context, job *river.Job[AnalyzeProjectArgs]) error {
	return w.runner.RunAnalysis(ctx, job.Args.ProjectID)
}
