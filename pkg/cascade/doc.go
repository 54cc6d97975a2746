// Package cascade answers "if this brick were disintegrated, which other
// bricks would fall?" over a settled support graph.
//
// # Falling sets
//
// Removing brick X starts a falling set F = {X}. A brick joins F as soon as
// every brick it rests on is in F. [Analyzer.Fall] computes the closure with a
// worklist: each member of F is expanded once, and for every brick resting on
// it a counter of falling supports is incremented. When the counter reaches
// the brick's support count, the brick joins F and is queued in turn. Work is
// linear in the number of support edges reachable from X.
//
// [Analyzer.Count] reports |F| - 1, the number of bricks other than X that
// fall.
//
// # Summaries
//
// [Analyzer.Summarize] runs one query per brick and reports the number of
// bricks that are safe to remove (count 0) and the sum of all counts. Queries
// share nothing but the read-only graph, so the identifier space can be
// split across goroutines; each worker writes only its own slots and the two
// scalars are reduced at the end.
package cascade
