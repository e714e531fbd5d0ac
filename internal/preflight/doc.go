// Package preflight provides readiness checks that run before the worker
// pool starts.
//
// A failed required check aborts the whole run with a non-zero exit before
// any task is scheduled; there are no partial runs. The checks cover the
// codec binary and its encode capability, output directory access, and a
// free-space floor on the output volume.
package preflight
