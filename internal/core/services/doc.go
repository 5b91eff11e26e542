// Package services implements the driving port interfaces.
// Services contain the core matching logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external service dependencies
// beyond what the driven ports abstract.
package services
