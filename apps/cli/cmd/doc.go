// Package cmd implements the harnesskit CLI commands using Cobra.
//
// Available commands:
//   - send: Execute one HTTP request through the pipeline
//   - version: Show harnesskit version information
//
// The CLI provisions a transport handle from flags or a YAML profile, runs a
// single call, and exits nonzero on any typed failure.
package cmd
