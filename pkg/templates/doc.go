// Package templates defines the boundary to the external tools a
// pipeline orchestrates. Each task template is a black box with a
// declared set of named inputs and named output artifacts; the pipeline
// supplies inputs by name and reads outputs by name, with no knowledge
// of the tool's internal behaviour.
package templates
