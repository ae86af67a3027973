package measure

import "time"

// Measure collects one metric per task of a pipeline run.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the execution durations of a task. Looped tasks add
// one duration per manifest item, so the average is per instance.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Instances() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
