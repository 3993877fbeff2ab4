package entity

// Credentials are submitted once per login attempt and never persisted.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// Remember selects the durable scope. Only dual-scope tenants honour false.
	Remember bool `json:"remember"`

	// PushToken is the browser's messaging token, forwarded as fcmToken.
	PushToken string `json:"fcmToken,omitempty"`
}

// RegistrationFile is an uploaded document attached to a vendor registration.
type RegistrationFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// VendorRegistration is the multipart form a new vendor submits.
type VendorRegistration struct {
	Fields map[string]string
	Files  []RegistrationFile
}
