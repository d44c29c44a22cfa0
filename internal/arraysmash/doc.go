// Package arraysmash implements the array-smashing functor of spec.md
// §4.7: a coarse array abstraction that represents every element of an
// array with a single symbolic cell, lifting any scalar numerical domain.
package arraysmash
