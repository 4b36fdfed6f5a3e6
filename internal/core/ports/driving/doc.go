// Package driving defines interfaces that external actors (CLI, MCP, TUI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
//   - IngestService: batch processing of a source
//   - WatchService: batch processing of files dropped into a directory
//   - ParseService: one-off parsing of a single record
//   - RunService: batch history and stored records
//   - SettingsService: configuration
//
// Implementations of these interfaces live in internal/core/services.
package driving
