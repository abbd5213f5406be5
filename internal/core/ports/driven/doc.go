// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Document: Reads and edits the meeting notes document
//   - Tracker: Lists users and labels, creates issues
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt templates
//
// # Optional Interfaces
//
// These can be nil - commands that need them report a configuration error:
//
//   - LLMService: Language model used for action item extraction.
//   - AIConfigValidator: Pings a provider before settings are accepted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
