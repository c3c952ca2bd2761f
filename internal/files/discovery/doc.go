// Package discovery finds the data files of an input root.
//
// A data file is any non-directory entry whose name ends in ".json" and does
// not start with a dot, at any depth. Content is never inspected.
package discovery
