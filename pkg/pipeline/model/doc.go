// Package model provides the data structures shared between the pipeline
// package and its run-time companions (drawer, measure, engine).
// It defines the task descriptors exchanged through run option hooks.
package model
