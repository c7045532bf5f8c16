// Package console writes demo transcripts.
//
// A transcript is the ordered list of lines a demo prints. Printer keeps
// that order exact and only decorates section headers and cautions when
// styling is on, so tests can compare plain output line by line.
package console
