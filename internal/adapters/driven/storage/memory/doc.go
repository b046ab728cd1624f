// Package memory provides in-memory implementations of driven ports.
// They back tests and runs that should leave nothing on disk.
package memory
