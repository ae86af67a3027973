package pipeline

import "github.com/pkg/errors"

// Bindings maps input slot names to the values supplied by a caller.
type Bindings map[string]string

// BindInputs validates the bindings against the declared slots and
// returns the resolved input scope. Required slots must be bound (or
// carry a default), file slots must satisfy their extension allow-list,
// and bindings for undeclared slots are rejected. Unbound optional slots
// are absent from the result.
func (p *Pipeline) BindInputs(bind Bindings) (map[string]string, error) {
	for name := range bind {
		if _, ok := p.slotIndex[name]; !ok {
			return nil, errors.Wrap(ErrUnknownInput, name)
		}
	}

	resolved := make(map[string]string, len(p.slots))

	for _, slot := range p.slots {
		value, bound := bind[slot.Name]
		if !bound || value == "" {
			switch {
			case slot.HasDefault:
				resolved[slot.Name] = slot.Default

				continue
			case slot.Optional:
				continue
			default:
				return nil, errors.Wrap(ErrInputMustBeBound, slot.Name)
			}
		}

		if !slot.allowsExtension(value) {
			return nil, errors.Wrapf(ErrBadExtension, "input %q: %q", slot.Name, value)
		}

		resolved[slot.Name] = value
	}

	return resolved, nil
}
