// Package driving defines interfaces that external actors (CLI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
//   - SourceFetcher: materialises remote files on local disk
//   - FileProcessor: converts fetch results into documents
//   - SettingsService: resolves pipeline settings
//
// Implementations of these interfaces live in internal/core/services.
package driving
