package pipeline

import "github.com/pkg/errors"

var (
	ErrNameMustBeSet     = errors.New("pipeline name must be set")
	ErrTaskNameMustBeSet = errors.New("task name must be set")
	ErrTemplateMustBeSet = errors.New("task template must be set")
	ErrSlotNameMustBeSet = errors.New("input slot name must be set")

	ErrDuplicateSlot = errors.New("duplicate input slot")
	ErrDuplicateTask = errors.New("duplicate task")
	ErrUnknownSlot   = errors.New("unknown input slot")
	ErrUnknownTask   = errors.New("unknown task")
	ErrNotInNeeds    = errors.New("parameter references a task missing from needs")
	ErrCycleDetected = errors.New("task graph contains a cycle")

	ErrLoopSourceMustBeOutput = errors.New("loop source must reference a task output")
	ErrSubPathUnknownParam    = errors.New("sub-path references an unknown parameter")
	ErrItemOutsideLoop        = errors.New("item variables are only available to looped tasks")

	ErrInputMustBeBound = errors.New("required input is not bound")
	ErrUnknownInput     = errors.New("binding references an unknown input slot")
	ErrBadExtension     = errors.New("file extension is not allowed")

	ErrVariableNotBound  = errors.New("template variable is not bound")
	ErrEmptyVariable     = errors.New("template variable name is empty")
	ErrUnclosedVariable  = errors.New("template variable is not closed")
	ErrBadVariableName   = errors.New("template variable name contains invalid characters")
	ErrManifestNotAList  = errors.New("manifest must be a JSON list of grid descriptors")
	ErrItemMissingField  = errors.New("manifest item is missing a required field")
	ErrDuplicateItemID   = errors.New("manifest contains duplicate full_id values")
	ErrUnsafeItemID      = errors.New("manifest full_id is not a path-safe identifier")
	ErrNegativeItemCount = errors.New("manifest count must be non-negative")
)
