// Package services implements the core report-generation pipeline.
//
// Services orchestrate domain logic using driven ports:
//
//   - IngestService: chunk + embed + index extracted text
//   - Retriever: per-section evidence retrieval with report-wide dedup
//   - Synthesizer: citation-constrained section generation
//   - ReportService: the driving surface tying the pipeline together
//
// Services contain business logic only. All I/O goes through ports.
package services
