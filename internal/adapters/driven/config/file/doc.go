// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with environment overrides
//   - PromptStore: User-editable prompt templates
//
// LoadDotEnv reads a .env file into the process environment so that
// ACTIONSYNC_* variables can be kept next to a project.
package file
