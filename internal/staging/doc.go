// Package staging owns the lifecycle of temporary conversion artifacts.
//
// Every conversion writes to "<final>.tmp" first. Publish promotes that
// staging file to its final name with a delete-then-rename, so a crash mid
// conversion can never leave a half-written file under the final name.
// Discard removes a staging file after a failed conversion, and CleanStaleTmp
// sweeps leftovers from crashed prior runs before a new run starts.
package staging
