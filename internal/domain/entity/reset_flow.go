package entity

import (
	"time"

	"portal/internal/errors"
)

// ErrResetOutOfOrder is returned when a reset step is attempted before its predecessor.
var ErrResetOutOfOrder = errors.New("password reset step out of order")

// ResetStep is a state of the password reset flow.
type ResetStep int

const (
	ResetIdle ResetStep = iota
	ResetRequestSent
	ResetCodeVerified
	ResetPasswordReset
	ResetDone
)

func (s ResetStep) String() string {
	switch s {
	case ResetIdle:
		return "idle"
	case ResetRequestSent:
		return "request_sent"
	case ResetCodeVerified:
		return "code_verified"
	case ResetPasswordReset:
		return "password_reset"
	case ResetDone:
		return "done"
	default:
		return "unknown"
	}
}

// ResetFlow tracks one password reset. Steps only move forward.
type ResetFlow struct {
	ID         string
	Email      string
	Step       ResetStep
	resetToken string
	UpdatedAt  time.Time
}

// NewResetFlow starts an idle flow.
func NewResetFlow(id string, now time.Time) *ResetFlow {
	return &ResetFlow{ID: id, UpdatedAt: now}
}

// RequestSent records a successful reset request. A new request restarts the flow.
func (f *ResetFlow) RequestSent(email string, now time.Time) {
	f.Email = email
	f.Step = ResetRequestSent
	f.resetToken = ""
	f.UpdatedAt = now
}

// CodeVerified records the reset token returned by code verification.
func (f *ResetFlow) CodeVerified(resetToken string, now time.Time) error {
	if f.Step != ResetRequestSent && f.Step != ResetCodeVerified {
		return errors.WithStack(ErrResetOutOfOrder)
	}
	if resetToken == "" {
		return errors.Wrap(ErrResetOutOfOrder, "empty reset token")
	}

	f.Step = ResetCodeVerified
	f.resetToken = resetToken
	f.UpdatedAt = now

	return nil
}

// ResetToken returns the token authorising the password-set call.
func (f *ResetFlow) ResetToken() (string, error) {
	if f.Step != ResetCodeVerified || f.resetToken == "" {
		return "", errors.WithStack(ErrResetOutOfOrder)
	}

	return f.resetToken, nil
}

// TakeResetToken hands out the reset token once. Until it is restored, further calls fail.
func (f *ResetFlow) TakeResetToken() (string, error) {
	token, err := f.ResetToken()
	if err != nil {
		return "", err
	}
	f.resetToken = ""

	return token, nil
}

// RestoreResetToken puts back a token taken for a password change that did not go through.
// It is ignored when the flow has moved on or already holds a token.
func (f *ResetFlow) RestoreResetToken(token string, now time.Time) {
	if f.Step != ResetCodeVerified || f.resetToken != "" || token == "" {
		return
	}

	f.resetToken = token
	f.UpdatedAt = now
}

// PasswordReset records a successful password change and burns the token.
func (f *ResetFlow) PasswordReset(now time.Time) error {
	if f.Step != ResetCodeVerified {
		return errors.WithStack(ErrResetOutOfOrder)
	}

	f.Step = ResetPasswordReset
	f.resetToken = ""
	f.UpdatedAt = now

	return nil
}

// Finish closes the flow.
func (f *ResetFlow) Finish(now time.Time) error {
	if f.Step != ResetPasswordReset {
		return errors.WithStack(ErrResetOutOfOrder)
	}

	f.Step = ResetDone
	f.UpdatedAt = now

	return nil
}
