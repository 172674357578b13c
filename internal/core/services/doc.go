// Package services implements the driving port interfaces.
// Services contain the core business logic: resolving user-facing
// references to API identifiers, shaping requests, and decoding
// responses into domain types. All API traffic flows through the
// driven GraphClient port.
package services
