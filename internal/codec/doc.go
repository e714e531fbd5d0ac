// Package codec is the boundary to the external image codec subsystem.
//
// The conversion pipeline never shells out or touches pixel data itself; it
// talks to a Gateway, which probes codec capability once per run and opens
// one Session per worker. Sessions bracket whatever per-worker state the
// underlying tool needs (the ImageMagick implementation gives each worker a
// private scratch directory) and perform individual conversions.
//
// A conversion writes only to the staging path it is given. Publishing the
// result to its final name is the pipeline's job, never the codec's.
package codec
