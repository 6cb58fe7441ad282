// Package pipeline sends prepared requests over a shared transport handle and
// classifies each outcome.
//
// Every call produces exactly one of:
//   - a decoded typed value (Decode)
//   - a materialized raw response (Raw)
//   - a typed failure (*TransportError, *StatusError, *DecodeError)
//
// The response body is read once into memory, bounded by the handle's
// buffering ceiling. Diagnostic logging, artifact capture, and decoding all
// work on that buffered copy, so a failure still carries the body without a
// second network read. The request description is released on every exit
// path, success or failure, before control returns to the caller.
package pipeline
