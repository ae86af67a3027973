package pipeline

import (
	"path/filepath"
	"strings"
)

// SlotKind is the type of value an input slot accepts.
type SlotKind string

const (
	FileSlot   SlotKind = "file"
	FolderSlot SlotKind = "folder"
	StringSlot SlotKind = "str"
)

// InputSlot is a typed input declaration of a pipeline. Slots are bound
// once at invocation time and are immutable afterwards.
type InputSlot struct {
	Name        string
	Description string
	Kind        SlotKind
	// Extensions restricts file slots to the listed extensions
	// (without the leading dot). Empty means any extension.
	Extensions []string
	// Optional slots may be left unbound; tasks referencing them
	// simply omit the parameter.
	Optional bool
	// Default is used when the slot is not bound. Only meaningful
	// when HasDefault is set, so an empty string can be a default.
	Default    string
	HasDefault bool
}

// SlotOption configures an input slot declaration.
type SlotOption func(s *InputSlot)

// WithExtensions restricts a file slot to the given extensions.
func WithExtensions(extensions ...string) SlotOption {
	return func(s *InputSlot) {
		s.Extensions = extensions
	}
}

// Optional marks the slot as optional.
func Optional() SlotOption {
	return func(s *InputSlot) {
		s.Optional = true
	}
}

// WithDefault sets the value used when the slot is left unbound.
func WithDefault(value string) SlotOption {
	return func(s *InputSlot) {
		s.Default = value
		s.HasDefault = true
	}
}

// allowsExtension reports whether the bound value satisfies the slot's
// extension allow-list. The comparison is case-insensitive.
func (s *InputSlot) allowsExtension(value string) bool {
	if s.Kind != FileSlot || len(s.Extensions) == 0 {
		return true
	}

	ext := strings.TrimPrefix(filepath.Ext(value), ".")
	for _, allowed := range s.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}

	return false
}
