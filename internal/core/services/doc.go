// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion path is Extractor (per object) and IngestionPipeline
// (per bucket). The answering path is Retriever (context assembly) and
// Composer (prompting). Assistant ties both behind driving.AssistantService.
package services
