// Package roster implements the pure signup state machine for one session:
// an ordered attending list, an ordered standby queue, and a declined set.
//
// Transitions are total over a valid roster: they either return a new valid
// roster (plus an optional promotion outcome) or a typed error, and never
// partially mutate. Serialization, durability, and locking live in the
// signup engine; this package does no I/O.
package roster
