// Package cfgbuilder provides a minimal, mutable implementation of the
// ir.CFG contract for tests and small driver programs. It plays the role
// the teacher's cfg package plays for Go source (FromFunc, Entry, Exit,
// Blocks) but builds graphs directly from ir.Stmt values instead of
// parsing a language's AST, since the core's CFG is language-agnostic.
package cfgbuilder
