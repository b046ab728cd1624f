// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceClient: Lists and downloads remote files (GitHub)
//   - Normaliser: Extracts text from one file format
//   - NormaliserRegistry: Dispatches a file to its format's normaliser
//
// # Optional Interfaces
//
//   - ManifestStore: Persists fetch results between fetch and process runs
//   - ConfigStore: Application configuration
//   - TokenProvider: Opaque credential for the remote client
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
