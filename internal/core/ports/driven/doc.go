// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - GraphClient: Authenticated request execution, pagination, and
//     message search against the Microsoft Graph API
//   - TokenManager: Device-code sign-in and access token lifecycle
//   - TokenStore: Token record persistence
//   - ConfigStore: Application configuration
//   - TranscriptParser: WebVTT transcript parsing
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
