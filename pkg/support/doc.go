// Package support derives the "rests on" relation between settled bricks.
//
// # Overview
//
// After settling, every brick either lies on the floor or sits directly on
// one or more other bricks. [Build] discovers these contacts by probing the
// layer of cells immediately beneath each brick against the occupancy index
// produced by the settling pass. The result is a [Graph] with two mutually
// inverse adjacency lists:
//
//   - [Graph.Below] lists the bricks a brick rests on (its supports)
//   - [Graph.Above] lists the bricks resting on it (its load)
//
// A brick with an empty Below list rests on the floor. Both lists are sorted
// and free of duplicates, and a brick never appears in its own lists.
//
// # Identifiers
//
// Nodes are brick identifiers in the range [0, Len). Adjacency is stored in
// slices indexed by identifier, so the graph holds no pointers to bricks and
// can outlive the geometry it was built from. Looking up an identifier
// outside the graph is a programming error and panics; use [Graph.Contains]
// to check untrusted input first.
//
// # Concurrency
//
// A Graph is immutable once [Build] returns and is safe for concurrent reads.
// Graphs assembled by hand with [Graph.AddEdge] are not safe for concurrent
// use until construction is complete.
package support
