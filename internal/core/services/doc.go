// Package services implements the driving port interfaces.
//
// RecordPipeline carries one record from detection to enrichment.
// BatchOrchestrator fans records out to workers and folds their outcome
// counts into a StatsTracker. IngestService wraps a batch with a source
// connector, sinks, alerting and run history.
package services
