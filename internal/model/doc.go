// Package model defines domain data structures used across the app: profiles,
// the global settings row, queued update requests, job results and the fixed
// set of auto-update intervals. Structures are plain values so they can cross
// goroutines and be bound directly to UI rows.
package model
