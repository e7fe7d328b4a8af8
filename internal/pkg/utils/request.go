package utils

import "github.com/google/uuid"

// GenerateRequestID mints the per-request id attached by the request-id middleware.
func GenerateRequestID() string {
	return uuid.NewString()
}
