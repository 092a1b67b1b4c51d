package domain

import "time"

// Identity is the caller identity extracted from a verified bearer token.
// Email and Name are informational; only Subject is used for authorization.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	ExpiresAt time.Time
}
