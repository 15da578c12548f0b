package pkg

import "github.com/google/uuid"

// GenerateNewSessionID - random id for the user_session cookie.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
