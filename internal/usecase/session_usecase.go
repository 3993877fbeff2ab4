// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
)

// SessionUsecase is one browser's session with the tenant. Operations report
// failures through the returned Result and never return errors.
type SessionUsecase interface {
	// Token returns the bearer token of the authenticated session, or "".
	Token() string
	State() entity.SessionState

	// Init reads storage once and settles loading to false.
	Init(ctx context.Context)
	Login(ctx context.Context, creds entity.Credentials) entity.Result
	Logout(ctx context.Context)

	RequestPasswordReset(ctx context.Context, email string) entity.Result
	// VerifyResetCode returns the reset token in Result.ResetToken.
	VerifyResetCode(ctx context.Context, email, code string) entity.Result
	ResetPassword(ctx context.Context, resetToken, newPassword string) entity.Result

	// Register submits a vendor registration; other tenants report a failure.
	Register(ctx context.Context, form entity.VendorRegistration) entity.Result
}

// SessionProvider mounts the tenant's session on a browser's storage.
type SessionProvider interface {
	Tenant() entity.Tenant
	LoginRoute() string
	SupportsRegistration() bool
	Mount(scopes repository.ScopePair) SessionUsecase
}

// ResetFlowUsecase keeps password reset progress server-side, keyed by an opaque flow ID.
type ResetFlowUsecase interface {
	Request(ctx context.Context, session SessionUsecase, flowID, email string) (string, entity.Result)
	Verify(ctx context.Context, session SessionUsecase, flowID, email, code string) entity.Result
	Reset(ctx context.Context, session SessionUsecase, flowID, newPassword string) entity.Result
}
