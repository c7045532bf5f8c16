// Package typesys walks through static typing, generics, explicit
// conversion and closures.
//
// Demo prints the walkthrough; Add, Narrow and Counter are the pieces it
// exercises. StaticCheck runs the go/types checker over a snippet so the
// compile-time rejection of a type change can be shown at run time.
package typesys
