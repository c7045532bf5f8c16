// Package demo registers the walkthroughs the binaries run: types, static,
// memory, ownership and usage.
package demo
