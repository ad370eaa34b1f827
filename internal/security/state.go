package security

import "github.com/google/uuid"

// GenerateStateToken creates an unguessable opaque value, used for OAuth
// state parameters and placeholder credentials
func GenerateStateToken() string {
	return uuid.New().String()
}
