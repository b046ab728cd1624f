// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Batch operations never fail as a whole: every input item yields exactly
// one output item, in input order, with failures carried as data.
package services
