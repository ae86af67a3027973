package measure

import "sync"

type DefaultMeasure struct {
	mu    sync.Mutex
	Tasks map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Tasks: make(map[string]Metric),
	}
}

// AddMetric registers a metric for the task, reusing the existing one
// when the task was already registered (looped tasks prepare once per
// instance).
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Tasks[name]; ok {
		return mt
	}

	mt := &DefaultMetric{mu: &sync.Mutex{}}
	m.Tasks[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Tasks[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[string]Metric, len(m.Tasks))
	for name, mt := range m.Tasks {
		all[name] = mt
	}

	return all
}

var _ Measure = (*DefaultMeasure)(nil)
