// Package core provides the resolution tier of the statechart engine: transition path
// decomposition, event resolution along ancestor chains, default-leaf resolution,
// descendant validation and state reference resolution.
//
// Every operation is a pure function over an immutable Chart. Nothing here mutates the
// tree or keeps state between calls, so any number of goroutines may resolve against the
// same chart concurrently. Resolver wraps the functions with logging and metrics.
package core
