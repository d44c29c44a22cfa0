// Package diag implements the error-handling design of spec.md §7: a
// single Diagnostic type distinguishing malformed input (an
// unsatisfiable construct reaching a domain that cannot express it)
// from a programmer error (dereferencing a function or object literal,
// or any other use a sound analysis must reject outright rather than
// silently degrade).
package diag
