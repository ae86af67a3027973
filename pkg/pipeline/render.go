package pipeline

import (
	"strings"

	"github.com/pkg/errors"
)

// Render substitutes every {{variable}} token in expr with its value from
// scope. Rendering is strict: an unbound variable is an error, never an
// empty substitution. Text outside tokens is copied verbatim.
func Render(expr string, scope map[string]string) (string, error) {
	var out strings.Builder

	rest := expr
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)

			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end < 0 {
			return "", errors.Wrap(ErrUnclosedVariable, expr)
		}

		name := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]

		if err := checkVariableName(name); err != nil {
			return "", errors.Wrap(err, expr)
		}

		value, ok := scope[name]
		if !ok {
			return "", errors.Wrap(ErrVariableNotBound, name)
		}

		out.WriteString(value)
	}
}

// Variables returns the names of the {{...}} tokens in expr, in order of
// appearance and with duplicates preserved.
func Variables(expr string) ([]string, error) {
	var names []string

	rest := expr
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			return names, nil
		}

		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end < 0 {
			return nil, errors.Wrap(ErrUnclosedVariable, expr)
		}

		name := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]

		if err := checkVariableName(name); err != nil {
			return nil, errors.Wrap(err, expr)
		}

		names = append(names, name)
	}
}

func checkVariableName(name string) error {
	if name == "" {
		return ErrEmptyVariable
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return errors.Wrap(ErrBadVariableName, name)
		}
	}

	return nil
}
