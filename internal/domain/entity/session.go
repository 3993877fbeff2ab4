package entity

// SessionState is the observable state of a tenant session.
type SessionState struct {
	CurrentUser     Principal `json:"currentUser"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Loading         bool      `json:"loading"`
	Error           string    `json:"error,omitempty"`
}

// Result is the tagged outcome of every session operation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// ResetToken is set only by a successful reset code verification.
	ResetToken string `json:"-"`
}

// Succeeded returns a success result.
func Succeeded() Result {
	return Result{Success: true}
}

// Failed returns a failure result carrying a user-facing message.
func Failed(message string) Result {
	return Result{Error: message}
}

// SessionEventType names a session lifecycle event.
type SessionEventType string

const (
	SessionEventLogin  SessionEventType = "login"
	SessionEventLogout SessionEventType = "logout"
)
