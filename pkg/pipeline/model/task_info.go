package model

// TaskInfo describes a task node to run option hooks.
type TaskInfo struct {
	// Name is the task name, unique within its pipeline.
	Name string
	// Template is the name of the external task template the task invokes.
	Template string
	// Needs lists the names of the tasks that must complete before this one.
	Needs []string
	// Looped reports whether the task fans out over manifest items.
	Looped bool
}
