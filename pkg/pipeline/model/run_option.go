package model

import "time"

// RunOption defines the interface for options attached to a pipeline run.
type RunOption interface {
	// New initialises the run option before any task executes.
	New() error
	// PrepareTask runs before the task (or one of its loop instances) executes.
	PrepareTask(task *TaskInfo) error
	// OnTaskDone runs after the task (or one of its loop instances) finished
	// successfully, with the time it spent executing.
	OnTaskDone(task *TaskInfo, elapsed time.Duration) error
	// Finish runs after the whole pipeline run is finished.
	Finish() error
}
