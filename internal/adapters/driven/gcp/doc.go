// Package gcp holds the Google Cloud plumbing shared by the storage,
// speech, video and Vertex AI adapters: credentials, client options,
// per-service rate limiting and API error classification.
package gcp
