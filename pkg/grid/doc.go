// Package grid provides the data model of the patrol simulation.
//
// A [Grid] is a bounded rectangle of cells, some of which hold obstacles. An
// [Agent] is a position plus a heading ([Direction]); the pair is the unit of
// simulation state and is directly usable as a map key.
//
// # Coordinates
//
// Points are (row, column), zero-based from the top-left corner. Row grows
// downward, so [Up] has displacement (-1, 0). A [Point] carries no bounds of its
// own: use [Grid.Contains] to check membership.
//
// # Immutability
//
// A Grid is never mutated after construction. [Grid.WithObstacle] returns a new
// grid that shares nothing with the receiver, which lets many concurrent trials
// read one baseline grid while each owns its own modified copy.
//
// # Input format
//
// [Parse] reads the puzzle text format:
//
//	....#.....
//	.........#
//	..#.......
//	....^.....
//
// where '.' is empty, '#' is an obstacle and exactly one of '^', '>', 'v', '<'
// marks the start position and heading.
package grid
