// Package pipeline provides a declarative task graph for wiring external
// simulation tools into multi-stage workflows.
//
// A pipeline is pure configuration: a named set of typed input slots and a
// fixed set of task nodes. Each task references an external task template,
// maps its parameters to input slots, literal values or upstream task
// outputs, and declares where the template's artifacts must be written.
// Ordering is expressed only through the needs list of each task; the
// resulting graph is validated (unique names, resolvable references,
// acyclicity) when it is built, before anything executes.
//
// A task may also fan out over a manifest of sensor-grid descriptors. Each
// manifest item produces one instance of the task with its own isolated
// working directory, so instances never collide on disk and may run fully
// in parallel.
//
// The package performs no execution itself. An engine resolves input
// bindings, invokes task templates and materialises outputs at the
// rendered destination paths.
package pipeline
