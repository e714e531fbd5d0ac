// Package convert drives the concurrent batch-conversion pipeline.
//
// A run builds an immutable task list, wraps it in a Queue with an atomic
// cursor, and starts a fixed pool of workers sized to the logical CPU count.
// Each worker opens its own codec session, pulls tasks until the queue is
// exhausted, and for every task drives convert → publish → classify →
// tally/report. The queue cursor guarantees each task index is handed to
// exactly one worker; the tally counters are atomic; the reporter serializes
// progress lines. No other state is shared between workers.
//
// Failures are strictly per task: a conversion or finalize error is
// classified, counted, and reported, and the worker moves on. Only a failed
// codec session open retires a worker, and even that merely reduces
// parallelism for the remainder of the run.
package convert
