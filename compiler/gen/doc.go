// Package gen compiles a wizard state into a complete Python backend
// project, emitted as plain-text artifacts.
//
// The generator is pure and synchronous: every operation is a total function
// of its inputs, with no I/O and no state outliving one invocation. Lookups
// that could fail degrade to documented fallbacks instead of erroring; the
// correctness bar is that the emitted source always parses for any
// well-formed input.
//
// The pipeline, leaves first: the schema package describes the models; the
// type resolver maps each field to one annotation (built on the pytype
// expression tree); the import scanner computes grouped import lines; the
// storage compiler expands the backend choice into constructor expressions,
// imports, and package extras; the dependency resolver folds extras into
// manifest specifiers; the emitter assembles main.py; Generate returns the
// final artifact set.
package gen
