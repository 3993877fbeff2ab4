package service

import (
	"context"
)

// PushTokenVerifier checks a browser messaging token before it is forwarded at login
type PushTokenVerifier interface {
	// VerifyToken returns false when the messaging backend rejects the token as invalid or unregistered
	VerifyToken(ctx context.Context, token string) (bool, error)
}
