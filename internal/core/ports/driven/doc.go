// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FormatDetector: Classifies a raw record as structured, flat text or unknown
//   - FieldExtractor: Splits a flat-text line into the 22 raw fields
//   - StructuredDecoder: Maps a structured document onto the 22 raw fields
//   - Normaliser: Resolves placeholders and numeric types
//   - EnrichmentPipeline: Derives analytic dimensions
//   - Connector: Delivers raw records from a source
//   - ConnectorFactory: Creates connectors from a source location
//   - RecordSink: Receives enriched records
//   - RunStore: Batch run persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RecordStore: Query access to stored records. Without it, record browsing is disabled.
//   - AlertNotifier: Alert delivery. Without it, alerts are only counted.
//   - StatsReporter: Metrics export. Without it, statistics are only logged and stored.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
