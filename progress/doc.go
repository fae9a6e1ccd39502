// Package progress keeps aggregated kernel counters: how many tasks were
// spawned, dispatched, preempted and so on.
package progress
