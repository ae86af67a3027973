package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/pipeline/measure"
	"github.com/buildsim/comfortflow/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	pipe      *pipeline.Pipeline
	startTime time.Time
}

// New populates the drawing with the pipeline's full task graph. The
// graph is static configuration, so it is known before anything runs.
func (pd *pipelineDrawer) New() error {
	for _, task := range pd.pipe.Tasks() {
		err := pd.AddTask(task.Name())
		if err != nil {
			return errors.Wrap(err, "unable to add task to drawer")
		}
	}

	for _, task := range pd.pipe.Tasks() {
		for _, need := range task.Needs() {
			err := pd.AddLink(need, task.Name())
			if err != nil {
				return errors.Wrap(err, "unable to add link to drawer")
			}
		}
	}

	return nil
}

func (pd *pipelineDrawer) PrepareTask(task *model.TaskInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnTaskDone(task *model.TaskInfo, elapsed time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer wires a drawer into a pipeline run. The measure may be
// nil, in which case the graph is drawn without duration annotations.
func PipelineDrawer(drawer Drawer, measure measure.Measure, pipe *pipeline.Pipeline) model.RunOption {
	return &pipelineDrawer{drawer, measure, pipe, time.Now()}
}
