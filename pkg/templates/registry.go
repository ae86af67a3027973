package templates

import (
	"sort"

	"github.com/pkg/errors"
)

// Registry holds the task templates available to an engine, keyed by
// template name.
type Registry struct {
	templates map[string]Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Add registers a template. Registering the same name twice is an error.
func (r *Registry) Add(tmpl Template) error {
	name := tmpl.Spec().Name
	if _, ok := r.templates[name]; ok {
		return errors.Wrap(ErrDuplicateTemplate, name)
	}

	r.templates[name] = tmpl

	return nil
}

// Get returns the named template.
func (r *Registry) Get(name string) (Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTemplate, name)
	}

	return tmpl, nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
