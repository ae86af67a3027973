package drawer

import (
	"time"

	"github.com/buildsim/comfortflow/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a task graph.
type Drawer interface {
	// AddTask adds a task node to the drawing.
	AddTask(taskName string) error
	// AddLink adds a dependency edge between two tasks.
	AddLink(parentTaskName, childTaskName string) error
	// Draw creates a file with the task graph.
	Draw() error
	// SetTotalTime annotates the graph with the total run time.
	SetTotalTime(taskName string, startTime time.Time) error
	// AddMeasure annotates the graph with per-task durations.
	AddMeasure(measure measure.Measure) error
}
