package farming

import (
	"context"

	"github.com/riverqueue/river"
)

type RunFarmingArgs struct {
	ProjectID     string   `json:"project_id"`
	WalletAddress string   `json:"wallet_address"`
	TaskNames     []string `json:"task_names,omitempty"`
}

func (RunFarmingArgs) Kind() string { return "run_farming" }

// Runner is the contract the worker needs from the farming service.
type Runner interface {
	RunSequence(ctx context.Context, projectID, walletAddress string, taskNames []string) error
}

type RunFarmingWorker struct {
	river.WorkerDefaults[RunFarmingArgs]
	runner Runner
}

func NewRunFarmingWorker(runner Runner) *RunFarmingWorker {
	return &RunFarmingWorker{runner: runner}
}

func (w *RunFarmingWorker) Work(ctx context.Context, job *river.Job[RunFarmingArgs]) error {
	args := job.Args
	return w.runner.RunSequence(ctx, args.ProjectID, args.WalletAddress, args.TaskNames)
}
