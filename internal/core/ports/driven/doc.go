// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ObjectStore: Enumerates and downloads bucket objects
//   - TextParser: Extracts text from a local PDF, DOCX, PPTX or TXT copy
//   - CorpusStore: In-memory document corpus
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil. Extraction of the affected type then fails with a
// diagnostic, and answering reports an error answer:
//
//   - SpeechTranscriber: Audio transcription
//   - VideoTranscriber: Video speech transcription
//   - LLMService: Answer and summary generation
//   - WatchableStore: Change notification for local buckets
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
