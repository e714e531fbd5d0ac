// Package history persists per-run conversion records in SQLite.
//
// The store is informational only: one row per run with its final tallies,
// and one row per task outcome. Nothing in the pipeline reads it back during
// a run, and it carries no resumption state; "heiconv history" renders it
// for the user. Recording failures are logged and swallowed so a broken
// history database can never affect a conversion.
package history
