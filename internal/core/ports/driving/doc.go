// Package driving defines the interfaces through which external actors
// call INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; the CLI adapter (and any future HTTP
// layer) consumes them. File-format extractors hand plain text to
// IngestService; export renderers consume ReportService.Preview.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
