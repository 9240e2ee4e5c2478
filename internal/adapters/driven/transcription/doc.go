// Package transcription groups the speech-to-text adapters.
//
// Subpackages:
//   - speech: synchronous audio recognition on the Speech-to-Text API
//   - video: speech transcription of video through the Video Intelligence API
//
// Both accept gs:// URIs only; the backends read the media directly from
// Cloud Storage.
package transcription
