// Package file provides file-based configuration adapters.
// These adapters persist data to the local filesystem under ~/.ragdoll.
//
// Adapters:
//   - Config: TOML-based configuration, loaded with defaults
//   - PromptStore: user-editable prompt templates
package file
