package measure

import (
	"time"

	"github.com/buildsim/comfortflow/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()

	return nil
}

func (pm *pipelineMeasure) PrepareTask(task *model.TaskInfo) error {
	pm.AddMetric(task.Name)

	return nil
}

func (pm *pipelineMeasure) OnTaskDone(task *model.TaskInfo, elapsed time.Duration) error {
	pm.GetMetric(task.Name).AddDuration(elapsed)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	for _, mt := range pm.AllMetrics() {
		mt.SetTotalDuration(time.Since(pm.startTime))
	}

	return nil
}

// PipelineMeasure wires a measure into a pipeline run.
func PipelineMeasure(measure Measure) model.RunOption {
	return &pipelineMeasure{Measure: measure}
}
