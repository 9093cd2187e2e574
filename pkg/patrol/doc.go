// Package patrol simulates a single guard walking a grid.
//
// The guard follows one rule: move forward unless the cell ahead is an
// obstacle, in which case turn clockwise and try again. A walk ends when the
// guard would step off the grid, or it never ends because a state repeats.
//
// # Components
//
//   - [Advance] is the pure transition function for one step.
//   - [Walker] is a lazy, pull-based sequence of agent states built on Advance.
//   - [Classify] consumes a Walker and decides [Exited] or [Cycled].
//
// A state is the (position, heading) pair. Cycle detection must key on the
// pair: a guard may cross its own path facing another way without looping.
//
// The number of states is height×width×4, so Classify always terminates within
// that many steps. None of these functions block, log or perform I/O.
package patrol
