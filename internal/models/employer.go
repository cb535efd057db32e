// internal/models/employer.go
package models

// EmployerContext is the authenticated employer identity attached to a
// request. It comes from the auth token claims, not from storage.
type EmployerContext struct {
	ID                 string `json:"id"`
	Tier               string `json:"tier,omitempty"`
	Verified           bool   `json:"verified"`
	FreePostingEnabled bool   `json:"freePostingEnabled"`
}
