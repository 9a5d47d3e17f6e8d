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
//   - DocumentLoader: Splits and parses one corpus file into documents
//   - MetadataValidator: Normalises metadata and resolves duplicate ids
//   - IndexBuilder: Builds and restores the inverted index
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SnapshotStore: Persisted indexes. Without it, every start needs a full build.
//   - SchedulerStore: Scheduler state. Only needed when the scheduler runs.
//   - CorpusWatcher: Filesystem change events. Without it, reloads are manual or scheduled.
//   - MetricsRecorder: Build and routing metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or index package
package driven
